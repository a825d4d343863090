package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/usecase"
)

// ReconciliationService is the part of the usecase layer exposed over HTTP.
type ReconciliationService interface {
	CreateReconciliation(ctx context.Context, actor string, in usecase.NewReconciliation) (*domain.Reconciliation, error)
	GetReconciliation(ctx context.Context, id string) (*domain.Reconciliation, error)
	ImportBankStatement(ctx context.Context, actor, reconciliationID string, lines []domain.RawLine, opts usecase.NormalizeOptions) (*usecase.NormalizeResult, error)
	RecordSystemTransactions(ctx context.Context, actor, reconciliationID string, lines []domain.RawLine, opts usecase.NormalizeOptions) (*usecase.NormalizeResult, error)
	SetBalances(ctx context.Context, actor, reconciliationID string, bankBalance, systemBalance domain.Amount) (*domain.Reconciliation, error)
	RunMatching(ctx context.Context, actor, reconciliationID string, asOf domain.Date) (*usecase.MatchRun, error)
	ResolveDivergence(ctx context.Context, actor, divergenceID string, status domain.DivergenceStatus, note string, force bool) (*domain.Divergence, error)
	Complete(ctx context.Context, actor, reconciliationID string) (*domain.Reconciliation, error)
	VerifyBalance(ctx context.Context, reconciliationID string) (*domain.BalanceReport, error)
	ListDivergences(ctx context.Context, reconciliationID string) ([]domain.Divergence, error)
	ListMatchPairs(ctx context.Context, reconciliationID string) ([]domain.MatchPair, error)
}

const actorHeader = "X-User-ID"

var timeNow = time.Now

type ReconciliationHandler struct {
	Service ReconciliationService
	logger  zerolog.Logger
}

func NewReconciliationHandler(service ReconciliationService, logger zerolog.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{Service: service, logger: logger}
}

type linesRequest struct {
	Lines        []domain.RawLine `json:"lines"`
	AllowPartial bool             `json:"allow_partial"`
}

type balancesRequest struct {
	BankBalance   domain.Amount `json:"bank_balance"`
	SystemBalance domain.Amount `json:"system_balance"`
}

type matchRequest struct {
	AsOf domain.Date `json:"as_of"`
}

type resolveRequest struct {
	Status domain.DivergenceStatus `json:"status"`
	Note   string                  `json:"note"`
	Force  bool                    `json:"force"`
}

type balanceResponse struct {
	Report *domain.BalanceReport `json:"report"`
	Error  string                `json:"error,omitempty"`
}

func (h *ReconciliationHandler) CreateReconciliation(w http.ResponseWriter, r *http.Request) {
	var in usecase.NewReconciliation
	if !h.decode(w, r, &in) {
		return
	}
	rec, err := h.Service.CreateReconciliation(r.Context(), actor(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *ReconciliationHandler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.GetReconciliation(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *ReconciliationHandler) ImportBankStatement(w http.ResponseWriter, r *http.Request) {
	var req linesRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.Service.ImportBankStatement(r.Context(), actor(r), r.PathValue("id"),
		numberLines(req.Lines, "bank-statement"), usecase.NormalizeOptions{AllowPartial: req.AllowPartial})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

func (h *ReconciliationHandler) RecordSystemTransactions(w http.ResponseWriter, r *http.Request) {
	var req linesRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.Service.RecordSystemTransactions(r.Context(), actor(r), r.PathValue("id"),
		numberLines(req.Lines, "system-transactions"), usecase.NormalizeOptions{AllowPartial: req.AllowPartial})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

func (h *ReconciliationHandler) SetBalances(w http.ResponseWriter, r *http.Request) {
	var req balancesRequest
	if !h.decode(w, r, &req) {
		return
	}
	rec, err := h.Service.SetBalances(r.Context(), actor(r), r.PathValue("id"), req.BankBalance, req.SystemBalance)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// RunMatching defaults as_of to today when the body is empty.
func (h *ReconciliationHandler) RunMatching(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if r.ContentLength != 0 && !h.decode(w, r, &req) {
		return
	}
	if req.AsOf.IsZero() {
		req.AsOf = domain.DateOf(timeNow())
	}
	run, err := h.Service.RunMatching(r.Context(), actor(r), r.PathValue("id"), req.AsOf)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *ReconciliationHandler) ListDivergences(w http.ResponseWriter, r *http.Request) {
	divergences, err := h.Service.ListDivergences(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, divergences)
}

func (h *ReconciliationHandler) ListMatchPairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.Service.ListMatchPairs(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pairs)
}

func (h *ReconciliationHandler) ResolveDivergence(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.Service.ResolveDivergence(r.Context(), actor(r), r.PathValue("id"), req.Status, req.Note, req.Force)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

func (h *ReconciliationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Complete(r.Context(), actor(r), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// VerifyBalance answers 409 with the report attached when the statement drifts.
func (h *ReconciliationHandler) VerifyBalance(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.VerifyBalance(r.Context(), r.PathValue("id"))
	if err != nil && !errors.Is(err, domain.ErrBalanceMismatch) {
		h.writeError(w, r, err)
		return
	}
	if err != nil {
		h.writeJSON(w, http.StatusConflict, balanceResponse{Report: report, Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, balanceResponse{Report: report})
}

func (h *ReconciliationHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *ReconciliationHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

type errorResponse struct {
	Error    string                         `json:"error"`
	Rejected []*domain.MalformedRecordError `json:"rejected,omitempty"`
}

func (h *ReconciliationHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		h.writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	resp := errorResponse{Error: err.Error()}
	var batch *domain.MalformedBatchError
	if errors.As(err, &batch) {
		resp.Rejected = batch.Records
	}
	h.writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedRecord):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidTolerance):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrPreconditionFailed),
		errors.Is(err, domain.ErrReconciliationClosed),
		errors.Is(err, domain.ErrBalanceMismatch):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func actor(r *http.Request) string {
	if a := r.Header.Get(actorHeader); a != "" {
		return a
	}
	return "anonymous"
}

// numberLines fills in source and line number for lines posted without them.
func numberLines(lines []domain.RawLine, source string) []domain.RawLine {
	for i := range lines {
		if lines[i].Source == "" {
			lines[i].Source = source
		}
		if lines[i].Line == 0 {
			lines[i].Line = i + 1
		}
	}
	return lines
}
