package usecase

import (
	"fmt"
	"time"

	"hw-reconciliation/internal/domain"
)

// StateMachine applies lifecycle transitions to a reconciliation. Methods either
// return the applied transition (nil when nothing changed) or an error, in which
// case the reconciliation is left untouched.
type StateMachine struct {
	// BalanceTolerance is the largest |bank - system| accepted at completion.
	BalanceTolerance domain.Amount
}

// EnsureOpen rejects any mutation against a completed reconciliation.
func EnsureOpen(rec *domain.Reconciliation) error {
	if rec.IsClosed() {
		return fmt.Errorf("%w: reconciliation %s is completed", domain.ErrReconciliationClosed, rec.ID)
	}
	return nil
}

// Start moves OPEN to IN_PROGRESS. It is called on the first recorded system
// transaction and on every matching run.
func (m StateMachine) Start(rec *domain.Reconciliation) (*domain.Transition, error) {
	if err := EnsureOpen(rec); err != nil {
		return nil, err
	}
	if rec.Status != domain.StatusOpen {
		return nil, nil
	}
	return apply(rec, domain.StatusInProgress), nil
}

// AfterClassify flags an in-progress reconciliation when a run produced new
// investigating divergences and there were none before.
func (m StateMachine) AfterClassify(rec *domain.Reconciliation, investigatingBefore, createdInvestigating int) (*domain.Transition, error) {
	if err := EnsureOpen(rec); err != nil {
		return nil, err
	}
	if rec.Status == domain.StatusInProgress && investigatingBefore == 0 && createdInvestigating > 0 {
		return apply(rec, domain.StatusFlagged), nil
	}
	return nil, nil
}

// AfterResolve unflags once no divergence is investigating, and flags again when a
// divergence was reopened on an in-progress reconciliation.
func (m StateMachine) AfterResolve(rec *domain.Reconciliation, investigatingAfter int) (*domain.Transition, error) {
	if err := EnsureOpen(rec); err != nil {
		return nil, err
	}
	switch {
	case rec.Status == domain.StatusFlagged && investigatingAfter == 0:
		return apply(rec, domain.StatusInProgress), nil
	case rec.Status == domain.StatusInProgress && investigatingAfter > 0:
		return apply(rec, domain.StatusFlagged), nil
	}
	return nil, nil
}

// Complete closes the reconciliation when the balances agree within tolerance and
// nothing is still under investigation.
func (m StateMachine) Complete(rec *domain.Reconciliation, divergences []domain.Divergence, now time.Time) (*domain.Transition, error) {
	if err := EnsureOpen(rec); err != nil {
		return nil, err
	}
	if rec.Status != domain.StatusInProgress && rec.Status != domain.StatusFlagged {
		return nil, fmt.Errorf("%w: cannot complete reconciliation %s from %s", domain.ErrInvalidTransition, rec.ID, rec.Status)
	}
	if diff := rec.Difference(); diff.Abs() > m.BalanceTolerance {
		return nil, fmt.Errorf("%w: difference %s exceeds tolerance %s", domain.ErrPreconditionFailed, diff, m.BalanceTolerance)
	}
	if n := countInvestigating(divergences); n > 0 {
		return nil, fmt.Errorf("%w: %d divergence(s) still investigating", domain.ErrPreconditionFailed, n)
	}
	t := apply(rec, domain.StatusCompleted)
	completedAt := now.UTC()
	rec.CompletedAt = &completedAt
	return t, nil
}

func apply(rec *domain.Reconciliation, to domain.ReconciliationStatus) *domain.Transition {
	t := &domain.Transition{From: rec.Status, To: to}
	rec.Status = to
	return t
}

func countInvestigating(divergences []domain.Divergence) int {
	n := 0
	for _, d := range divergences {
		if d.Status == domain.DivergenceInvestigating {
			n++
		}
	}
	return n
}
