package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedRecord      = errors.New("malformed record")
	ErrInvalidTolerance     = errors.New("invalid tolerance")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrPreconditionFailed   = errors.New("precondition failed")
	ErrReconciliationClosed = errors.New("reconciliation closed")
	ErrBalanceMismatch      = errors.New("balance mismatch")
	ErrNotFound             = errors.New("not found")
)

// MalformedRecordError describes one raw line that could not be normalized.
type MalformedRecordError struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s:%d: %s '%s': %s", e.Source, e.Line, e.Field, e.Value, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// MalformedBatchError is returned when a batch is rejected as a whole.
type MalformedBatchError struct {
	Records []*MalformedRecordError
}

func (e *MalformedBatchError) Error() string {
	msgs := make([]string, 0, len(e.Records))
	for _, r := range e.Records {
		msgs = append(msgs, r.Error())
	}
	return fmt.Sprintf("%d malformed record(s): %s", len(e.Records), strings.Join(msgs, "; "))
}

func (e *MalformedBatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Records))
	for _, r := range e.Records {
		errs = append(errs, r)
	}
	return errs
}

// BalanceMismatchError reports that the statement movements do not lead from the
// start balance to the end balance.
type BalanceMismatchError struct {
	ReconciliationID string
	ExpectedEnd      Amount
	ImpliedEnd       Amount
	Drift            Amount
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("reconciliation %s: end balance %s but movements imply %s (drift %s)",
		e.ReconciliationID, e.ExpectedEnd, e.ImpliedEnd, e.Drift)
}

func (e *BalanceMismatchError) Unwrap() error { return ErrBalanceMismatch }
