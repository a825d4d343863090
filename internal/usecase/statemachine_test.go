package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/usecase"
)

func TestStateMachine_Start(t *testing.T) {
	m := usecase.StateMachine{}

	rec := &domain.Reconciliation{ID: "rec-1", Status: domain.StatusOpen}
	tr, err := m.Start(rec)
	require.NoError(t, err)
	assert.Equal(t, &domain.Transition{From: domain.StatusOpen, To: domain.StatusInProgress}, tr)
	assert.Equal(t, domain.StatusInProgress, rec.Status)

	tr, err = m.Start(rec)
	require.NoError(t, err)
	assert.Nil(t, tr, "already in progress")

	closed := &domain.Reconciliation{ID: "rec-2", Status: domain.StatusCompleted}
	_, err = m.Start(closed)
	assert.True(t, errors.Is(err, domain.ErrReconciliationClosed))
}

func TestStateMachine_AfterClassify(t *testing.T) {
	m := usecase.StateMachine{}
	tests := []struct {
		name    string
		status  domain.ReconciliationStatus
		before  int
		created int
		want    domain.ReconciliationStatus
		flagged bool
	}{
		{name: "first divergence flags", status: domain.StatusInProgress, before: 0, created: 2, want: domain.StatusFlagged, flagged: true},
		{name: "no new divergence", status: domain.StatusInProgress, before: 0, created: 0, want: domain.StatusInProgress},
		{name: "already investigating does not flag again", status: domain.StatusInProgress, before: 1, created: 1, want: domain.StatusInProgress},
		{name: "flagged stays flagged", status: domain.StatusFlagged, before: 1, created: 1, want: domain.StatusFlagged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &domain.Reconciliation{ID: "rec-1", Status: tt.status}
			tr, err := m.AfterClassify(rec, tt.before, tt.created)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Status)
			assert.Equal(t, tt.flagged, tr != nil)
		})
	}
}

func TestStateMachine_AfterResolve(t *testing.T) {
	m := usecase.StateMachine{}

	rec := &domain.Reconciliation{ID: "rec-1", Status: domain.StatusFlagged}
	tr, err := m.AfterResolve(rec, 1)
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Equal(t, domain.StatusFlagged, rec.Status)

	tr, err = m.AfterResolve(rec, 0)
	require.NoError(t, err)
	assert.Equal(t, &domain.Transition{From: domain.StatusFlagged, To: domain.StatusInProgress}, tr)

	tr, err = m.AfterResolve(rec, 1)
	require.NoError(t, err)
	assert.Equal(t, &domain.Transition{From: domain.StatusInProgress, To: domain.StatusFlagged}, tr, "reopened divergence flags again")
}

func TestStateMachine_Complete(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	investigating := []domain.Divergence{{ID: "d1", Status: domain.DivergenceInvestigating}}
	settled := []domain.Divergence{{ID: "d1", Status: domain.DivergenceResolved}, {ID: "d2", Status: domain.DivergenceIgnored}}

	tests := []struct {
		name        string
		status      domain.ReconciliationStatus
		bank        string
		system      string
		tolerance   domain.Amount
		divergences []domain.Divergence
		wantErr     error
	}{
		{name: "balanced and settled", status: domain.StatusInProgress, bank: "52180.00", system: "52180.00", divergences: settled},
		{name: "flagged can complete once settled", status: domain.StatusFlagged, bank: "100.00", system: "100.00", divergences: settled},
		{name: "difference above tolerance", status: domain.StatusInProgress, bank: "52180.00", system: "51980.00", wantErr: domain.ErrPreconditionFailed},
		{name: "difference within tolerance", status: domain.StatusInProgress, bank: "100.01", system: "100.00", tolerance: 1},
		{name: "investigating divergence", status: domain.StatusFlagged, bank: "1.00", system: "1.00", divergences: investigating, wantErr: domain.ErrPreconditionFailed},
		{name: "open cannot complete", status: domain.StatusOpen, bank: "0", system: "0", wantErr: domain.ErrInvalidTransition},
		{name: "completed is closed", status: domain.StatusCompleted, bank: "0", system: "0", wantErr: domain.ErrReconciliationClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := usecase.StateMachine{BalanceTolerance: tt.tolerance}
			rec := &domain.Reconciliation{
				ID:            "rec-1",
				Status:        tt.status,
				BankBalance:   domain.MustParseAmount(tt.bank),
				SystemBalance: domain.MustParseAmount(tt.system),
			}

			tr, err := m.Complete(rec, tt.divergences, now)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, tr)
				assert.Equal(t, tt.status, rec.Status)
				assert.Nil(t, rec.CompletedAt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCompleted, rec.Status)
			require.NotNil(t, rec.CompletedAt)
			assert.Equal(t, now, *rec.CompletedAt)
		})
	}
}

func TestStateMachine_CompleteReportsDifference(t *testing.T) {
	rec := &domain.Reconciliation{
		ID:            "rec-1",
		Status:        domain.StatusInProgress,
		BankBalance:   domain.MustParseAmount("52180.00"),
		SystemBalance: domain.MustParseAmount("51980.00"),
	}
	assert.Equal(t, domain.MustParseAmount("200.00"), rec.Difference())

	_, err := usecase.StateMachine{}.Complete(rec, nil, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "200.00")
}
