package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"hw-reconciliation/internal/domain"
)

// Classifier turns a MatchResult into divergences.
type Classifier struct {
	// Materiality is the smallest absolute amount delta that is flagged.
	Materiality domain.Amount
	now         func() time.Time
	newID       func() string
}

// ClassifyResult separates new divergences from existing ones whose amounts were refreshed.
type ClassifyResult struct {
	Created []domain.Divergence `json:"created"`
	Updated []domain.Divergence `json:"updated"`
}

func NewClassifier(materiality domain.Amount) *Classifier {
	if materiality < 1 {
		materiality = 1
	}
	return &Classifier{
		Materiality: materiality,
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
}

// Classify derives divergences for a matching run. Unmatched transactions are only
// reported once their matching window has closed relative to asOf. Re-running on an
// unchanged result creates nothing: divergences are keyed by (reconciliation, date,
// description) and an existing one is only refreshed when it is still investigating
// and its amounts changed.
func (c *Classifier) Classify(reconciliationID string, result *domain.MatchResult, existing []domain.Divergence, asOf domain.Date) ClassifyResult {
	byKey := make(map[domain.DivergenceKey]domain.Divergence, len(existing))
	for _, d := range existing {
		byKey[d.Key()] = d
	}

	out := ClassifyResult{
		Created: make([]domain.Divergence, 0),
		Updated: make([]domain.Divergence, 0),
	}
	emitted := make(map[domain.DivergenceKey]bool)
	now := c.now().UTC()

	emit := func(d domain.Divergence) {
		key := d.Key()
		if emitted[key] {
			return
		}
		emitted[key] = true

		prev, ok := byKey[key]
		if !ok {
			d.ID = c.newID()
			d.Status = domain.DivergenceInvestigating
			d.CreatedAt = now
			d.UpdatedAt = now
			out.Created = append(out.Created, d)
			return
		}
		if prev.Status != domain.DivergenceInvestigating {
			return
		}
		if prev.ExpectedValue == d.ExpectedValue && prev.ActualValue == d.ActualValue {
			return
		}
		prev.SetValues(d.ExpectedValue, d.ActualValue)
		prev.UpdatedAt = now
		out.Updated = append(out.Updated, prev)
	}

	for _, p := range result.Pairs {
		if p.Confidence != domain.MatchFuzzy || p.AmountDelta.Abs() < c.Materiality {
			continue
		}
		b := result.BankByID[p.BankTxID]
		s := result.SystemByID[p.SystemTxID]
		d := domain.Divergence{
			ReconciliationID: reconciliationID,
			Date:             s.Date,
			Description:      fmt.Sprintf("Amount mismatch: %s [bank %s / system %s]", s.Description, b.ID, s.ID),
			BankTxID:         b.ID,
			SystemTxID:       s.ID,
		}
		d.SetValues(s.SignedAmount(), b.Amount)
		emit(d)
	}

	window := result.Tolerance.DateWindowDays
	for _, b := range result.UnmatchedBank {
		if !windowClosed(b.Date, window, asOf) {
			continue
		}
		d := domain.Divergence{
			ReconciliationID: reconciliationID,
			Date:             b.Date,
			Description:      fmt.Sprintf("Missing in system: %s [bank %s]", b.Description, b.ID),
			BankTxID:         b.ID,
		}
		d.SetValues(0, b.Amount)
		emit(d)
	}
	for _, s := range result.UnmatchedSystem {
		if !windowClosed(s.Date, window, asOf) {
			continue
		}
		d := domain.Divergence{
			ReconciliationID: reconciliationID,
			Date:             s.Date,
			Description:      fmt.Sprintf("Missing in bank: %s [system %s]", s.Description, s.ID),
			SystemTxID:       s.ID,
		}
		d.SetValues(s.SignedAmount(), 0)
		emit(d)
	}

	return out
}

func windowClosed(date domain.Date, window int, asOf domain.Date) bool {
	return asOf.After(date.AddDays(window))
}

// Resolve moves a divergence to resolved or ignored. A terminal divergence can only be
// changed again with force, which also allows reopening it as investigating.
func (c *Classifier) Resolve(d domain.Divergence, status domain.DivergenceStatus, note string, force bool) (domain.Divergence, error) {
	if !status.Valid() {
		return d, fmt.Errorf("%w: unknown divergence status %q", domain.ErrInvalidTransition, status)
	}
	if status == domain.DivergenceInvestigating && !force {
		return d, fmt.Errorf("%w: reopening divergence %s requires force", domain.ErrInvalidTransition, d.ID)
	}
	if d.Status.IsTerminal() && !force {
		return d, fmt.Errorf("%w: divergence %s is already %s", domain.ErrInvalidTransition, d.ID, d.Status)
	}
	d.Status = status
	if note != "" {
		d.Observation = note
	}
	d.UpdatedAt = c.now().UTC()
	return d, nil
}
