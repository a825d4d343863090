package domain

import "fmt"

// MatchConfidence tells how closely a pair agrees.
type MatchConfidence string

const (
	MatchExact MatchConfidence = "EXACT"
	MatchFuzzy MatchConfidence = "FUZZY"
)

// Tolerance bounds which bank and system transactions may be paired.
type Tolerance struct {
	AmountEpsilon  Amount `json:"amount_epsilon"`
	DateWindowDays int    `json:"date_window_days"`
	// NearMatchPercent allows leftovers whose amounts differ by at most this
	// percentage of the system amount to be paired as discrepant FUZZY pairs.
	// Zero disables the near-match pass except for document-linked lines.
	NearMatchPercent int `json:"near_match_percent"`
}

func (t Tolerance) Validate() error {
	if t.AmountEpsilon < 0 {
		return fmt.Errorf("%w: amount epsilon %s is negative", ErrInvalidTolerance, t.AmountEpsilon)
	}
	if t.DateWindowDays < 0 {
		return fmt.Errorf("%w: date window %d is negative", ErrInvalidTolerance, t.DateWindowDays)
	}
	if t.NearMatchPercent < 0 {
		return fmt.Errorf("%w: near-match percent %d is negative", ErrInvalidTolerance, t.NearMatchPercent)
	}
	return nil
}

// MatchPair associates one bank line with one system transaction.
// AmountDelta is bank amount minus signed system amount; DateDeltaDays is bank date minus system date.
type MatchPair struct {
	BankTxID      string          `json:"bank_tx_id"`
	SystemTxID    string          `json:"system_tx_id"`
	Confidence    MatchConfidence `json:"match_confidence"`
	DateDeltaDays int             `json:"date_delta_days"`
	AmountDelta   Amount          `json:"amount_delta"`
}

// MatchResult is the output of one matching run. Pairs hold copies of the
// matched transactions so the classifier does not need to look them up again.
type MatchResult struct {
	Tolerance       Tolerance           `json:"tolerance"`
	Pairs           []MatchPair         `json:"pairs"`
	UnmatchedBank   []BankTransaction   `json:"unmatched_bank"`
	UnmatchedSystem []SystemTransaction `json:"unmatched_system"`

	BankByID   map[string]BankTransaction   `json:"-"`
	SystemByID map[string]SystemTransaction `json:"-"`
}
