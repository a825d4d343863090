package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/usecase"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateReconciliation(ctx context.Context, actor string, in usecase.NewReconciliation) (*domain.Reconciliation, error) {
	args := m.Called(actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockService) GetReconciliation(ctx context.Context, id string) (*domain.Reconciliation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockService) ImportBankStatement(ctx context.Context, actor, reconciliationID string, lines []domain.RawLine, opts usecase.NormalizeOptions) (*usecase.NormalizeResult, error) {
	args := m.Called(actor, reconciliationID, lines, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.NormalizeResult), args.Error(1)
}

func (m *MockService) RecordSystemTransactions(ctx context.Context, actor, reconciliationID string, lines []domain.RawLine, opts usecase.NormalizeOptions) (*usecase.NormalizeResult, error) {
	args := m.Called(actor, reconciliationID, lines, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.NormalizeResult), args.Error(1)
}

func (m *MockService) SetBalances(ctx context.Context, actor, reconciliationID string, bankBalance, systemBalance domain.Amount) (*domain.Reconciliation, error) {
	args := m.Called(actor, reconciliationID, bankBalance, systemBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockService) RunMatching(ctx context.Context, actor, reconciliationID string, asOf domain.Date) (*usecase.MatchRun, error) {
	args := m.Called(actor, reconciliationID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.MatchRun), args.Error(1)
}

func (m *MockService) ResolveDivergence(ctx context.Context, actor, divergenceID string, status domain.DivergenceStatus, note string, force bool) (*domain.Divergence, error) {
	args := m.Called(actor, divergenceID, status, note, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Divergence), args.Error(1)
}

func (m *MockService) Complete(ctx context.Context, actor, reconciliationID string) (*domain.Reconciliation, error) {
	args := m.Called(actor, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockService) VerifyBalance(ctx context.Context, reconciliationID string) (*domain.BalanceReport, error) {
	args := m.Called(reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceReport), args.Error(1)
}

func (m *MockService) ListDivergences(ctx context.Context, reconciliationID string) ([]domain.Divergence, error) {
	args := m.Called(reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Divergence), args.Error(1)
}

func (m *MockService) ListMatchPairs(ctx context.Context, reconciliationID string) ([]domain.MatchPair, error) {
	args := m.Called(reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MatchPair), args.Error(1)
}

func newTestRouter(svc *MockService) http.Handler {
	return SetupRoutes(NewReconciliationHandler(svc, zerolog.Nop()))
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set(actorHeader, "alice")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestReconciliationHandler_CreateReconciliation(t *testing.T) {
	t.Run("should create a reconciliation", func(t *testing.T) {
		svc := new(MockService)
		router := newTestRouter(svc)

		in := usecase.NewReconciliation{ClientID: "c1", Bank: "HW Bank", Account: "001", StartBalance: 100000}
		rec := &domain.Reconciliation{ID: "rec-1", ClientID: "c1", Status: domain.StatusOpen, StartBalance: 100000}
		svc.On("CreateReconciliation", "alice", in).Return(rec, nil).Once()

		rr := serve(router, "POST", "/reconciliations", `{"client_id":"c1","bank":"HW Bank","account":"001","start_balance":"1000.00"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "rec-1", body["id"])
		assert.Equal(t, "1000.00", body["start_balance"])
		svc.AssertExpectations(t)
	})

	t.Run("should reject an invalid body", func(t *testing.T) {
		svc := new(MockService)
		router := newTestRouter(svc)

		rr := serve(router, "POST", "/reconciliations", `{"client_id":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "CreateReconciliation", mock.Anything, mock.Anything)
	})
}

func TestReconciliationHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("reconciliation x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"precondition", fmt.Errorf("wrapped: %w", domain.ErrPreconditionFailed), http.StatusConflict},
		{"transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"closed", domain.ErrReconciliationClosed, http.StatusConflict},
		{"tolerance", domain.ErrInvalidTolerance, http.StatusBadRequest},
		{"malformed", &domain.MalformedBatchError{Records: []*domain.MalformedRecordError{{Source: "bank", Line: 2, Field: "amount"}}}, http.StatusUnprocessableEntity},
		{"unexpected", errors.New("db error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			router := newTestRouter(svc)
			svc.On("Complete", "alice", "rec-1").Return(nil, tt.err).Once()

			rr := serve(router, "POST", "/reconciliations/rec-1/complete", "")

			assert.Equal(t, tt.want, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestReconciliationHandler_ImportBankStatement(t *testing.T) {
	svc := new(MockService)
	router := newTestRouter(svc)

	expectedLines := []domain.RawLine{
		{Source: "bank-statement", Line: 1, ID: "B1", Date: "2024-01-15", Description: "PIX", Amount: "-1485.00"},
	}
	result := &usecase.NormalizeResult{Bank: []domain.BankTransaction{{ID: "B1", Amount: -148500}}}
	svc.On("ImportBankStatement", "alice", "rec-1", expectedLines, usecase.NormalizeOptions{AllowPartial: true}).Return(result, nil).Once()

	rr := serve(router, "POST", "/reconciliations/rec-1/bank-statement",
		`{"allow_partial":true,"lines":[{"id":"B1","date":"2024-01-15","description":"PIX","amount":"-1485.00"}]}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestReconciliationHandler_RunMatching(t *testing.T) {
	t.Run("should use the given as_of date", func(t *testing.T) {
		svc := new(MockService)
		router := newTestRouter(svc)

		asOf := domain.NewDate(2024, time.January, 31)
		run := &usecase.MatchRun{
			Reconciliation: &domain.Reconciliation{ID: "rec-1", Status: domain.StatusFlagged},
			Result:         &domain.MatchResult{},
		}
		svc.On("RunMatching", "alice", "rec-1", asOf).Return(run, nil).Once()

		rr := serve(router, "POST", "/reconciliations/rec-1/match", `{"as_of":"2024-01-31"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("should default as_of to today", func(t *testing.T) {
		original := timeNow
		defer func() { timeNow = original }()
		timeNow = func() time.Time { return time.Date(2024, 2, 5, 15, 0, 0, 0, time.UTC) }

		svc := new(MockService)
		router := newTestRouter(svc)
		run := &usecase.MatchRun{Reconciliation: &domain.Reconciliation{ID: "rec-1"}, Result: &domain.MatchResult{}}
		svc.On("RunMatching", "alice", "rec-1", domain.NewDate(2024, time.February, 5)).Return(run, nil).Once()

		rr := serve(router, "POST", "/reconciliations/rec-1/match", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})
}

func TestReconciliationHandler_ResolveDivergence(t *testing.T) {
	svc := new(MockService)
	router := newTestRouter(svc)

	d := &domain.Divergence{ID: "div-1", Status: domain.DivergenceResolved, Observation: "bank fee"}
	svc.On("ResolveDivergence", "alice", "div-1", domain.DivergenceResolved, "bank fee", false).Return(d, nil).Once()

	rr := serve(router, "POST", "/divergences/div-1/resolve", `{"status":"resolved","note":"bank fee"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got domain.Divergence
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, domain.DivergenceResolved, got.Status)
	svc.AssertExpectations(t)
}

func TestReconciliationHandler_VerifyBalance(t *testing.T) {
	t.Run("should return the report", func(t *testing.T) {
		svc := new(MockService)
		router := newTestRouter(svc)
		svc.On("VerifyBalance", "rec-1").Return(&domain.BalanceReport{OK: true}, nil).Once()

		rr := serve(router, "GET", "/reconciliations/rec-1/balance", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("should return conflict with the report on mismatch", func(t *testing.T) {
		svc := new(MockService)
		router := newTestRouter(svc)
		mismatch := &domain.BalanceMismatchError{ReconciliationID: "rec-1", Drift: 100}
		svc.On("VerifyBalance", "rec-1").Return(&domain.BalanceReport{Drift: 100}, mismatch).Once()

		rr := serve(router, "GET", "/reconciliations/rec-1/balance", "")

		assert.Equal(t, http.StatusConflict, rr.Code)
		var body balanceResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		require.NotNil(t, body.Report)
		assert.Equal(t, domain.Amount(100), body.Report.Drift)
		assert.NotEmpty(t, body.Error)
		svc.AssertExpectations(t)
	})
}

func TestReconciliationHandler_ListDivergences(t *testing.T) {
	svc := new(MockService)
	router := newTestRouter(svc)
	divergences := []domain.Divergence{{ID: "div-1", Difference: -1500}}
	svc.On("ListDivergences", "rec-1").Return(divergences, nil).Once()

	rr := serve(router, "GET", "/reconciliations/rec-1/divergences", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"difference":"-15.00"`)
	svc.AssertExpectations(t)
}
