package domain

import (
	"encoding/json"
	"time"
)

// ReconciliationStatus is the lifecycle state of a reconciliation.
type ReconciliationStatus string

const (
	StatusOpen       ReconciliationStatus = "OPEN"
	StatusInProgress ReconciliationStatus = "IN_PROGRESS"
	StatusCompleted  ReconciliationStatus = "COMPLETED"
	StatusFlagged    ReconciliationStatus = "FLAGGED"
)

// Reconciliation compares one client's bank account against the internal ledger for a period.
type Reconciliation struct {
	ID            string               `json:"id"`
	ClientID      string               `json:"client_id"`
	Bank          string               `json:"bank"`
	Account       string               `json:"account"`
	Period        string               `json:"period"`
	StartBalance  Amount               `json:"start_balance"`
	EndBalance    Amount               `json:"end_balance"`
	BankBalance   Amount               `json:"bank_balance"`
	SystemBalance Amount               `json:"system_balance"`
	Status        ReconciliationStatus `json:"status"`
	Responsible   string               `json:"responsible"`
	StartDate     Date                 `json:"start_date"`
	DueDate       Date                 `json:"due_date"`
	CompletedAt   *time.Time           `json:"completed_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Difference is always derived from the two balances.
func (r *Reconciliation) Difference() Amount {
	return r.BankBalance - r.SystemBalance
}

func (r *Reconciliation) IsClosed() bool {
	return r.Status == StatusCompleted
}

func (r Reconciliation) MarshalJSON() ([]byte, error) {
	type plain Reconciliation
	return json.Marshal(struct {
		plain
		Difference Amount `json:"difference"`
	}{plain: plain(r), Difference: r.Difference()})
}

// Transition is one applied state change.
type Transition struct {
	From ReconciliationStatus `json:"from"`
	To   ReconciliationStatus `json:"to"`
}
