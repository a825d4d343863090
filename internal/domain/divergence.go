package domain

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DivergenceStatus is the lifecycle of a divergence.
type DivergenceStatus string

const (
	DivergenceInvestigating DivergenceStatus = "investigating"
	DivergenceResolved      DivergenceStatus = "resolved"
	DivergenceIgnored       DivergenceStatus = "ignored"
)

func (s DivergenceStatus) IsTerminal() bool {
	return s == DivergenceResolved || s == DivergenceIgnored
}

func (s DivergenceStatus) Valid() bool {
	return s == DivergenceInvestigating || s.IsTerminal()
}

// Divergence records a discrepancy between what the system expected and what the bank shows.
type Divergence struct {
	ID               string           `json:"id"`
	ReconciliationID string           `json:"reconciliation_id"`
	Date             Date             `json:"date"`
	Description      string           `json:"description"`
	ExpectedValue    Amount           `json:"expected_value"`
	ActualValue      Amount           `json:"actual_value"`
	Difference       Amount           `json:"difference"`
	Status           DivergenceStatus `json:"status"`
	Observation      string           `json:"observation,omitempty"`
	BankTxID         string           `json:"bank_tx_id,omitempty"`
	SystemTxID       string           `json:"system_tx_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SetValues updates the amounts and keeps Difference = actual - expected.
func (d *Divergence) SetValues(expected, actual Amount) {
	d.ExpectedValue = expected
	d.ActualValue = actual
	d.Difference = actual - expected
}

// Key identifies a divergence across classification runs.
func (d Divergence) Key() DivergenceKey {
	return NewDivergenceKey(d.ReconciliationID, d.Date, d.Description)
}

// DivergenceKey is an xxhash digest of (reconciliation id, date, description).
type DivergenceKey uint64

func NewDivergenceKey(reconciliationID string, date Date, description string) DivergenceKey {
	digest := xxhash.New()
	digest.WriteString(reconciliationID)
	digest.WriteString("\x00")
	digest.WriteString(date.String())
	digest.WriteString("\x00")
	digest.WriteString(description)
	return DivergenceKey(digest.Sum64())
}

func (k DivergenceKey) String() string {
	return strconv.FormatUint(uint64(k), 16)
}
