package domain

// BalanceReport is the outcome of a balance verification.
type BalanceReport struct {
	OK                 bool   `json:"ok"`
	ComputedDifference Amount `json:"computed_difference"`
	StatementTotal     Amount `json:"statement_total"`
	MatchedTotal       Amount `json:"matched_total"`
	ImpliedEndBalance  Amount `json:"implied_end_balance"`
	Drift              Amount `json:"drift"`
}

// Summary provides high-level statistics of a matching run.
type Summary struct {
	AsOf                             string `json:"as_of"`
	TotalSystemTransactionsProcessed int    `json:"total_system_transactions_processed"`
	TotalBankTransactionsProcessed   int    `json:"total_bank_transactions_processed"`
	MatchedTransactions              int    `json:"matched_transactions"`
	ExactMatches                     int    `json:"exact_matches"`
	FuzzyMatches                     int    `json:"fuzzy_matches"`
	UnmatchedTransactions            int    `json:"unmatched_transactions"`
	OpenDivergences                  int    `json:"open_divergences"`
	TotalDivergenceValue             Amount `json:"total_divergence_value"`
}

// ReconciliationReport is the top-level structure for the CLI's JSON output.
type ReconciliationReport struct {
	Summary         Summary             `json:"reconciliation_summary"`
	Reconciliation  *Reconciliation     `json:"reconciliation"`
	Pairs           []MatchPair         `json:"pairs"`
	UnmatchedBank   []BankTransaction   `json:"unmatched_bank"`
	UnmatchedSystem []SystemTransaction `json:"unmatched_system"`
	Divergences     []Divergence        `json:"divergences"`
	Balance         *BalanceReport      `json:"balance,omitempty"`
	BalanceError    string              `json:"balance_error,omitempty"`
}

// NewSummary counts a matching run and the divergences that are still open.
func NewSummary(asOf Date, bankCount, systemCount int, result *MatchResult, divergences []Divergence) Summary {
	s := Summary{
		AsOf:                             asOf.String(),
		TotalBankTransactionsProcessed:   bankCount,
		TotalSystemTransactionsProcessed: systemCount,
		MatchedTransactions:              len(result.Pairs),
		UnmatchedTransactions:            len(result.UnmatchedBank) + len(result.UnmatchedSystem),
	}
	for _, p := range result.Pairs {
		if p.Confidence == MatchExact {
			s.ExactMatches++
		} else {
			s.FuzzyMatches++
		}
	}
	for _, d := range divergences {
		if d.Status == DivergenceInvestigating {
			s.OpenDivergences++
			s.TotalDivergenceValue += d.Difference.Abs()
		}
	}
	return s
}
