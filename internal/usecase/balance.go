package usecase

import "hw-reconciliation/internal/domain"

// Verify checks that start balance plus the statement movements lands on the end
// balance. Drift beyond tolerance is returned as a *domain.BalanceMismatchError
// alongside the report.
func Verify(rec *domain.Reconciliation, bank []domain.BankTransaction, pairs []domain.MatchPair, tolerance domain.Amount) (*domain.BalanceReport, error) {
	matched := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		matched[p.BankTxID] = true
	}

	report := &domain.BalanceReport{ComputedDifference: rec.Difference()}
	for _, b := range bank {
		report.StatementTotal += b.Amount
		if matched[b.ID] {
			report.MatchedTotal += b.Amount
		}
	}
	report.ImpliedEndBalance = rec.StartBalance + report.StatementTotal
	report.Drift = rec.EndBalance - report.ImpliedEndBalance

	if report.Drift.Abs() > tolerance {
		return report, &domain.BalanceMismatchError{
			ReconciliationID: rec.ID,
			ExpectedEnd:      rec.EndBalance,
			ImpliedEnd:       report.ImpliedEndBalance,
			Drift:            report.Drift,
		}
	}
	report.OK = report.ComputedDifference.Abs() <= tolerance
	return report, nil
}
