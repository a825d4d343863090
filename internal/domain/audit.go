package domain

import (
	"encoding/json"
	"time"
)

type AuditAction string

const (
	AuditCreate     AuditAction = "CREATE"
	AuditUpdate     AuditAction = "UPDATE"
	AuditTransition AuditAction = "TRANSITION"
	AuditMatchRun   AuditAction = "MATCH_RUN"
	AuditResolve    AuditAction = "RESOLVE"
	AuditImport     AuditAction = "IMPORT"
)

// AuditPayload is a closed union of the snapshots that may be attached to an audit entry.
type AuditPayload interface {
	AuditKind() string
}

type ReconciliationSnapshot struct {
	Status        ReconciliationStatus `json:"status"`
	BankBalance   Amount               `json:"bank_balance"`
	SystemBalance Amount               `json:"system_balance"`
	Difference    Amount               `json:"difference"`
	CompletedAt   *time.Time           `json:"completed_at,omitempty"`
}

func (ReconciliationSnapshot) AuditKind() string { return "reconciliation" }

func SnapshotReconciliation(r *Reconciliation) ReconciliationSnapshot {
	return ReconciliationSnapshot{
		Status:        r.Status,
		BankBalance:   r.BankBalance,
		SystemBalance: r.SystemBalance,
		Difference:    r.Difference(),
		CompletedAt:   r.CompletedAt,
	}
}

type DivergenceSnapshot struct {
	Status        DivergenceStatus `json:"status"`
	ExpectedValue Amount           `json:"expected_value"`
	ActualValue   Amount           `json:"actual_value"`
	Difference    Amount           `json:"difference"`
	Observation   string           `json:"observation,omitempty"`
}

func (DivergenceSnapshot) AuditKind() string { return "divergence" }

func SnapshotDivergence(d Divergence) DivergenceSnapshot {
	return DivergenceSnapshot{
		Status:        d.Status,
		ExpectedValue: d.ExpectedValue,
		ActualValue:   d.ActualValue,
		Difference:    d.Difference,
		Observation:   d.Observation,
	}
}

type MatchRunSnapshot struct {
	Pairs              int `json:"pairs"`
	UnmatchedBank      int `json:"unmatched_bank"`
	UnmatchedSystem    int `json:"unmatched_system"`
	CreatedDivergences int `json:"created_divergences"`
	UpdatedDivergences int `json:"updated_divergences"`
}

func (MatchRunSnapshot) AuditKind() string { return "match_run" }

type TransactionSnapshot struct {
	Side   string `json:"side"`
	Count  int    `json:"count"`
	Amount Amount `json:"amount"`
}

func (TransactionSnapshot) AuditKind() string { return "transaction" }

// AuditEntry is handed to the audit logger after a committed change.
type AuditEntry struct {
	Action   AuditAction  `json:"action"`
	Entity   string       `json:"entity"`
	EntityID string       `json:"entity_id"`
	Actor    string       `json:"actor"`
	OldData  AuditPayload `json:"old_data,omitempty"`
	NewData  AuditPayload `json:"new_data,omitempty"`
	At       time.Time    `json:"at"`
}

// EncodePayload renders a payload as {"kind": ..., "data": ...}; nil yields nil.
func EncodePayload(p AuditPayload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(struct {
		Kind string       `json:"kind"`
		Data AuditPayload `json:"data"`
	}{Kind: p.AuditKind(), Data: p})
}
