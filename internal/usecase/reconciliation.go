package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hw-reconciliation/internal/domain"
)

var tracer = otel.Tracer("hw-reconciliation/usecase")

// Settings carries the tolerances used by every run. They are passed in explicitly
// rather than read from globals.
type Settings struct {
	Tolerance        domain.Tolerance
	Materiality      domain.Amount
	BalanceTolerance domain.Amount
}

// NewReconciliation is the operator input for opening a reconciliation.
type NewReconciliation struct {
	ClientID     string        `json:"client_id"`
	Bank         string        `json:"bank"`
	Account      string        `json:"account"`
	Period       string        `json:"period"`
	StartBalance domain.Amount `json:"start_balance"`
	EndBalance   domain.Amount `json:"end_balance"`
	Responsible  string        `json:"responsible"`
	StartDate    domain.Date   `json:"start_date"`
	DueDate      domain.Date   `json:"due_date"`
}

// MatchRun is the committed outcome of RunMatching.
type MatchRun struct {
	Reconciliation *domain.Reconciliation `json:"reconciliation"`
	Result         *domain.MatchResult    `json:"result"`
	Divergences    ClassifyResult         `json:"divergences"`
	Transitions    []domain.Transition    `json:"transitions"`
}

// ReconciliationUseCase orchestrates normalization, matching, classification and
// the reconciliation lifecycle on top of a transactional Store.
type ReconciliationUseCase struct {
	store      Store
	audit      AuditLogger
	settings   Settings
	classifier *Classifier
	machine    StateMachine
	locks      *KeyedMutex
	logger     zerolog.Logger
	now        func() time.Time
}

// NewReconciliationUseCase creates a new instance of the usecase. audit may be nil.
func NewReconciliationUseCase(store Store, audit AuditLogger, settings Settings, logger zerolog.Logger) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		store:      store,
		audit:      audit,
		settings:   settings,
		classifier: NewClassifier(settings.Materiality),
		machine:    StateMachine{BalanceTolerance: settings.BalanceTolerance},
		locks:      NewKeyedMutex(),
		logger:     logger.With().Str("component", "reconciliation").Logger(),
		now:        time.Now,
	}
}

// CreateReconciliation opens a reconciliation in OPEN state.
func (uc *ReconciliationUseCase) CreateReconciliation(ctx context.Context, actor string, in NewReconciliation) (*domain.Reconciliation, error) {
	if in.ClientID == "" || in.Bank == "" || in.Account == "" {
		return nil, fmt.Errorf("%w: client, bank and account are required", domain.ErrPreconditionFailed)
	}
	now := uc.now().UTC()
	rec := &domain.Reconciliation{
		ID:           uuid.NewString(),
		ClientID:     in.ClientID,
		Bank:         in.Bank,
		Account:      in.Account,
		Period:       in.Period,
		StartBalance: in.StartBalance,
		EndBalance:   in.EndBalance,
		Status:       domain.StatusOpen,
		Responsible:  in.Responsible,
		StartDate:    in.StartDate,
		DueDate:      in.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if rec.Responsible == "" {
		rec.Responsible = actor
	}
	if err := uc.store.CreateReconciliation(ctx, rec); err != nil {
		return nil, fmt.Errorf("could not create reconciliation: %w", err)
	}
	uc.emit(ctx, domain.AuditEntry{
		Action: domain.AuditCreate, Entity: "reconciliation", EntityID: rec.ID, Actor: actor,
		NewData: domain.SnapshotReconciliation(rec),
	})
	return rec, nil
}

func (uc *ReconciliationUseCase) GetReconciliation(ctx context.Context, id string) (*domain.Reconciliation, error) {
	rec, err := uc.store.GetReconciliation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get reconciliation %s: %w", id, err)
	}
	return rec, nil
}

// ImportBankStatement normalizes and stores statement lines for a reconciliation.
func (uc *ReconciliationUseCase) ImportBankStatement(ctx context.Context, actor, reconciliationID string, lines []domain.RawLine, opts NormalizeOptions) (*NormalizeResult, error) {
	normalized, err := Normalize(lines, nil, opts)
	if err != nil {
		return nil, err
	}

	unlock, err := uc.locks.Lock(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = uc.store.WithinTx(ctx, func(repo Repository) error {
		rec, err := repo.GetReconciliation(ctx, reconciliationID)
		if err != nil {
			return err
		}
		if err := EnsureOpen(rec); err != nil {
			return err
		}
		if len(normalized.Bank) == 0 {
			return nil
		}
		existing, err := repo.ListBankTransactions(ctx, reconciliationID)
		if err != nil {
			return err
		}
		stored := make(map[string]bool, len(existing))
		for _, b := range existing {
			stored[b.ID] = true
		}
		kept, rejected := rejectStored(normalized.Bank, func(b domain.BankTransaction) string { return b.ID }, stored, lines)
		if len(rejected) > 0 {
			if !opts.AllowPartial {
				return &domain.MalformedBatchError{Records: rejected}
			}
			normalized.Bank = kept
			normalized.Rejected = append(normalized.Rejected, rejected...)
		}
		if len(normalized.Bank) == 0 {
			return nil
		}
		return repo.InsertBankTransactions(ctx, reconciliationID, normalized.Bank)
	})
	if err != nil {
		return nil, fmt.Errorf("could not import bank statement: %w", err)
	}

	var total domain.Amount
	for _, b := range normalized.Bank {
		total += b.Amount
	}
	uc.emit(ctx, domain.AuditEntry{
		Action: domain.AuditImport, Entity: "reconciliation", EntityID: reconciliationID, Actor: actor,
		NewData: domain.TransactionSnapshot{Side: "bank", Count: len(normalized.Bank), Amount: total},
	})
	return normalized, nil
}

// RecordSystemTransactions stores operator-entered movements. The first recorded
// movement moves the reconciliation to IN_PROGRESS.
func (uc *ReconciliationUseCase) RecordSystemTransactions(ctx context.Context, actor, reconciliationID string, lines []domain.RawLine, opts NormalizeOptions) (*NormalizeResult, error) {
	normalized, err := Normalize(nil, lines, opts)
	if err != nil {
		return nil, err
	}

	unlock, err := uc.locks.Lock(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var entries []domain.AuditEntry
	err = uc.store.WithinTx(ctx, func(repo Repository) error {
		rec, err := repo.GetReconciliation(ctx, reconciliationID)
		if err != nil {
			return err
		}
		if err := EnsureOpen(rec); err != nil {
			return err
		}
		if len(normalized.System) == 0 {
			return nil
		}
		existing, err := repo.ListSystemTransactions(ctx, reconciliationID)
		if err != nil {
			return err
		}
		stored := make(map[string]bool, len(existing))
		for _, tx := range existing {
			stored[tx.ID] = true
		}
		kept, rejected := rejectStored(normalized.System, func(tx domain.SystemTransaction) string { return tx.ID }, stored, lines)
		if len(rejected) > 0 {
			if !opts.AllowPartial {
				return &domain.MalformedBatchError{Records: rejected}
			}
			normalized.System = kept
			normalized.Rejected = append(normalized.Rejected, rejected...)
		}
		if len(normalized.System) == 0 {
			return nil
		}
		var total domain.Amount
		for _, tx := range normalized.System {
			if err := repo.InsertSystemTransaction(ctx, reconciliationID, tx); err != nil {
				return err
			}
			total += tx.SignedAmount()
		}
		entries = append(entries, domain.AuditEntry{
			Action: domain.AuditImport, Entity: "reconciliation", EntityID: reconciliationID, Actor: actor,
			NewData: domain.TransactionSnapshot{Side: "system", Count: len(normalized.System), Amount: total},
		})

		before := domain.SnapshotReconciliation(rec)
		t, err := uc.machine.Start(rec)
		if err != nil || t == nil {
			return err
		}
		rec.UpdatedAt = uc.now().UTC()
		if err := repo.UpdateReconciliation(ctx, rec); err != nil {
			return err
		}
		entries = append(entries, transitionEntry(rec, actor, before))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not record system transactions: %w", err)
	}
	uc.emit(ctx, entries...)
	return normalized, nil
}

// SetBalances records the bank and system balances entered by the operator.
// The difference is derived from them on every read.
func (uc *ReconciliationUseCase) SetBalances(ctx context.Context, actor, reconciliationID string, bankBalance, systemBalance domain.Amount) (*domain.Reconciliation, error) {
	unlock, err := uc.locks.Lock(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var rec *domain.Reconciliation
	var before domain.ReconciliationSnapshot
	err = uc.store.WithinTx(ctx, func(repo Repository) error {
		var err error
		rec, err = repo.GetReconciliation(ctx, reconciliationID)
		if err != nil {
			return err
		}
		if err := EnsureOpen(rec); err != nil {
			return err
		}
		before = domain.SnapshotReconciliation(rec)
		rec.BankBalance = bankBalance
		rec.SystemBalance = systemBalance
		rec.UpdatedAt = uc.now().UTC()
		return repo.UpdateReconciliation(ctx, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("could not set balances: %w", err)
	}
	uc.emit(ctx, domain.AuditEntry{
		Action: domain.AuditUpdate, Entity: "reconciliation", EntityID: rec.ID, Actor: actor,
		OldData: before, NewData: domain.SnapshotReconciliation(rec),
	})
	return rec, nil
}

// RunMatching matches the stored bank and system transactions, classifies
// divergences and applies the resulting transitions in one transaction.
func (uc *ReconciliationUseCase) RunMatching(ctx context.Context, actor, reconciliationID string, asOf domain.Date) (_ *MatchRun, err error) {
	ctx, span := tracer.Start(ctx, "RunMatching", trace.WithAttributes(
		attribute.String("reconciliation.id", reconciliationID),
		attribute.String("as_of", asOf.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	unlock, err := uc.locks.Lock(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	run := &MatchRun{Transitions: make([]domain.Transition, 0)}
	var entries []domain.AuditEntry
	err = uc.store.WithinTx(ctx, func(repo Repository) error {
		rec, err := repo.GetReconciliation(ctx, reconciliationID)
		if err != nil {
			return err
		}
		if err := EnsureOpen(rec); err != nil {
			return err
		}
		bank, err := repo.ListBankTransactions(ctx, reconciliationID)
		if err != nil {
			return err
		}
		system, err := repo.ListSystemTransactions(ctx, reconciliationID)
		if err != nil {
			return err
		}
		existing, err := repo.ListDivergences(ctx, reconciliationID)
		if err != nil {
			return err
		}

		result, err := Match(bank, system, uc.settings.Tolerance)
		if err != nil {
			return err
		}
		classified := uc.classifier.Classify(reconciliationID, result, existing, asOf)

		// One snapshot per state so each transition gets its own audit entry.
		states := []domain.ReconciliationSnapshot{domain.SnapshotReconciliation(rec)}
		started, err := uc.machine.Start(rec)
		if err != nil {
			return err
		}
		if started != nil {
			states = append(states, domain.SnapshotReconciliation(rec))
		}
		flagged, err := uc.machine.AfterClassify(rec, countInvestigating(existing), len(classified.Created))
		if err != nil {
			return err
		}
		if flagged != nil {
			states = append(states, domain.SnapshotReconciliation(rec))
		}

		if err := repo.ReplaceMatchPairs(ctx, reconciliationID, result.Pairs); err != nil {
			return err
		}
		if len(classified.Created) > 0 {
			if err := repo.InsertDivergences(ctx, classified.Created); err != nil {
				return err
			}
		}
		for _, d := range classified.Updated {
			if err := repo.UpdateDivergence(ctx, d); err != nil {
				return err
			}
		}
		for _, t := range []*domain.Transition{started, flagged} {
			if t != nil {
				run.Transitions = append(run.Transitions, *t)
			}
		}
		if len(run.Transitions) > 0 {
			rec.UpdatedAt = uc.now().UTC()
			if err := repo.UpdateReconciliation(ctx, rec); err != nil {
				return err
			}
			for i := 1; i < len(states); i++ {
				entries = append(entries, transitionAudit(rec.ID, actor, states[i-1], states[i]))
			}
		}

		entries = append(entries, domain.AuditEntry{
			Action: domain.AuditMatchRun, Entity: "reconciliation", EntityID: reconciliationID, Actor: actor,
			NewData: domain.MatchRunSnapshot{
				Pairs:              len(result.Pairs),
				UnmatchedBank:      len(result.UnmatchedBank),
				UnmatchedSystem:    len(result.UnmatchedSystem),
				CreatedDivergences: len(classified.Created),
				UpdatedDivergences: len(classified.Updated),
			},
		})
		run.Reconciliation = rec
		run.Result = result
		run.Divergences = classified
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("matching run for %s failed: %w", reconciliationID, err)
	}

	span.SetAttributes(
		attribute.Int("match.pairs", len(run.Result.Pairs)),
		attribute.Int("divergences.created", len(run.Divergences.Created)),
	)
	uc.logger.Info().
		Str("reconciliation_id", reconciliationID).
		Int("pairs", len(run.Result.Pairs)).
		Int("unmatched_bank", len(run.Result.UnmatchedBank)).
		Int("unmatched_system", len(run.Result.UnmatchedSystem)).
		Int("divergences_created", len(run.Divergences.Created)).
		Int("divergences_updated", len(run.Divergences.Updated)).
		Str("status", string(run.Reconciliation.Status)).
		Msg("matching run committed")
	uc.emit(ctx, entries...)
	return run, nil
}

// ResolveDivergence closes (or, with force, reopens) a divergence and unflags the
// reconciliation when nothing is left under investigation.
func (uc *ReconciliationUseCase) ResolveDivergence(ctx context.Context, actor, divergenceID string, status domain.DivergenceStatus, note string, force bool) (*domain.Divergence, error) {
	current, err := uc.store.GetDivergence(ctx, divergenceID)
	if err != nil {
		return nil, fmt.Errorf("could not get divergence %s: %w", divergenceID, err)
	}

	unlock, err := uc.locks.Lock(ctx, current.ReconciliationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var resolved domain.Divergence
	var entries []domain.AuditEntry
	err = uc.store.WithinTx(ctx, func(repo Repository) error {
		rec, err := repo.GetReconciliation(ctx, current.ReconciliationID)
		if err != nil {
			return err
		}
		if err := EnsureOpen(rec); err != nil {
			return err
		}
		d, err := repo.GetDivergence(ctx, divergenceID)
		if err != nil {
			return err
		}
		resolved, err = uc.classifier.Resolve(*d, status, note, force)
		if err != nil {
			return err
		}
		all, err := repo.ListDivergences(ctx, rec.ID)
		if err != nil {
			return err
		}
		if err := repo.UpdateDivergence(ctx, resolved); err != nil {
			return err
		}
		entries = append(entries, domain.AuditEntry{
			Action: domain.AuditResolve, Entity: "divergence", EntityID: resolved.ID, Actor: actor,
			OldData: domain.SnapshotDivergence(*d), NewData: domain.SnapshotDivergence(resolved),
		})

		for i := range all {
			if all[i].ID == resolved.ID {
				all[i] = resolved
			}
		}
		before := domain.SnapshotReconciliation(rec)
		t, err := uc.machine.AfterResolve(rec, countInvestigating(all))
		if err != nil || t == nil {
			return err
		}
		rec.UpdatedAt = uc.now().UTC()
		if err := repo.UpdateReconciliation(ctx, rec); err != nil {
			return err
		}
		entries = append(entries, transitionEntry(rec, actor, before))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not resolve divergence %s: %w", divergenceID, err)
	}
	uc.emit(ctx, entries...)
	return &resolved, nil
}

// Complete closes a reconciliation. It fails with domain.ErrPreconditionFailed while
// the balances disagree or a divergence is still investigating.
func (uc *ReconciliationUseCase) Complete(ctx context.Context, actor, reconciliationID string) (_ *domain.Reconciliation, err error) {
	ctx, span := tracer.Start(ctx, "Complete", trace.WithAttributes(
		attribute.String("reconciliation.id", reconciliationID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	unlock, err := uc.locks.Lock(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var rec *domain.Reconciliation
	var before domain.ReconciliationSnapshot
	err = uc.store.WithinTx(ctx, func(repo Repository) error {
		var err error
		rec, err = repo.GetReconciliation(ctx, reconciliationID)
		if err != nil {
			return err
		}
		divergences, err := repo.ListDivergences(ctx, reconciliationID)
		if err != nil {
			return err
		}
		before = domain.SnapshotReconciliation(rec)
		now := uc.now()
		if _, err := uc.machine.Complete(rec, divergences, now); err != nil {
			return err
		}
		rec.UpdatedAt = now.UTC()
		return repo.UpdateReconciliation(ctx, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("could not complete reconciliation %s: %w", reconciliationID, err)
	}
	uc.emit(ctx, transitionEntry(rec, actor, before))
	return rec, nil
}

// VerifyBalance runs the balance reconciler against the stored statement and pairs.
// A *domain.BalanceMismatchError is returned together with the report.
func (uc *ReconciliationUseCase) VerifyBalance(ctx context.Context, reconciliationID string) (*domain.BalanceReport, error) {
	rec, err := uc.store.GetReconciliation(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("could not get reconciliation %s: %w", reconciliationID, err)
	}
	bank, err := uc.store.ListBankTransactions(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("could not list bank transactions: %w", err)
	}
	pairs, err := uc.store.ListMatchPairs(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("could not list match pairs: %w", err)
	}
	report, err := Verify(rec, bank, pairs, uc.settings.BalanceTolerance)
	var mismatch *domain.BalanceMismatchError
	if errors.As(err, &mismatch) {
		uc.logger.Warn().Str("reconciliation_id", reconciliationID).Str("drift", mismatch.Drift.String()).Msg("balance mismatch")
	}
	return report, err
}

func (uc *ReconciliationUseCase) ListDivergences(ctx context.Context, reconciliationID string) ([]domain.Divergence, error) {
	divergences, err := uc.store.ListDivergences(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("could not list divergences: %w", err)
	}
	return divergences, nil
}

func (uc *ReconciliationUseCase) ListMatchPairs(ctx context.Context, reconciliationID string) ([]domain.MatchPair, error) {
	pairs, err := uc.store.ListMatchPairs(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("could not list match pairs: %w", err)
	}
	return pairs, nil
}

// emit hands entries to the audit logger. Failures are logged and dropped.
func (uc *ReconciliationUseCase) emit(ctx context.Context, entries ...domain.AuditEntry) {
	if uc.audit == nil {
		return
	}
	for _, e := range entries {
		if e.At.IsZero() {
			e.At = uc.now().UTC()
		}
		if err := uc.audit.Log(ctx, e); err != nil {
			uc.logger.Warn().Err(err).Str("action", string(e.Action)).Str("entity_id", e.EntityID).Msg("audit delivery failed")
		}
	}
}

func transitionEntry(rec *domain.Reconciliation, actor string, before domain.ReconciliationSnapshot) domain.AuditEntry {
	return transitionAudit(rec.ID, actor, before, domain.SnapshotReconciliation(rec))
}

func transitionAudit(reconciliationID, actor string, before, after domain.ReconciliationSnapshot) domain.AuditEntry {
	return domain.AuditEntry{
		Action:   domain.AuditTransition,
		Entity:   "reconciliation",
		EntityID: reconciliationID,
		Actor:    actor,
		OldData:  before,
		NewData:  after,
	}
}
