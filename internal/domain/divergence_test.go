package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivergence_SetValues(t *testing.T) {
	var d Divergence
	d.SetValues(MustParseAmount("-1500.00"), MustParseAmount("-1485.00"))
	assert.Equal(t, MustParseAmount("15.00"), d.Difference)

	d.SetValues(MustParseAmount("1500.00"), MustParseAmount("1485.00"))
	assert.Equal(t, MustParseAmount("-15.00"), d.Difference)
}

func TestDivergenceKey(t *testing.T) {
	date := MustParseDate("2024-01-15")
	a := Divergence{ReconciliationID: "rec-1", Date: date, Description: "Missing in bank: fee"}
	b := a
	b.ID = "other"
	b.SetValues(100, 0)

	assert.Equal(t, a.Key(), b.Key(), "key ignores id and amounts")
	assert.NotEqual(t, a.Key(), NewDivergenceKey("rec-2", date, a.Description))
	assert.NotEqual(t, a.Key(), NewDivergenceKey("rec-1", date.AddDays(1), a.Description))
	assert.NotEqual(t, NewDivergenceKey("ab", date, "c"), NewDivergenceKey("a", date, "bc"))
	assert.NotEmpty(t, a.Key().String())
}

func TestDivergenceStatus(t *testing.T) {
	assert.False(t, DivergenceInvestigating.IsTerminal())
	assert.True(t, DivergenceResolved.IsTerminal())
	assert.True(t, DivergenceIgnored.IsTerminal())
	assert.False(t, DivergenceStatus("closed").Valid())
}

func TestReconciliation_MarshalJSON(t *testing.T) {
	rec := Reconciliation{
		ID:            "rec-1",
		Status:        StatusInProgress,
		BankBalance:   MustParseAmount("52180.00"),
		SystemBalance: MustParseAmount("51980.00"),
	}
	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, "200.00", body["difference"])
	assert.Equal(t, "IN_PROGRESS", body["status"])
	assert.Equal(t, "52180.00", body["bank_balance"])
}

func TestErrors(t *testing.T) {
	rec := &MalformedRecordError{Source: "bank.csv", Line: 3, Field: "amount", Value: "x", Reason: "bad"}
	batch := &MalformedBatchError{Records: []*MalformedRecordError{rec}}
	wrapped := fmt.Errorf("import failed: %w", batch)

	assert.True(t, errors.Is(wrapped, ErrMalformedRecord))
	var got *MalformedRecordError
	require.True(t, errors.As(wrapped, &got))
	assert.Equal(t, 3, got.Line)
	assert.Contains(t, batch.Error(), "bank.csv:3")

	mismatch := &BalanceMismatchError{ReconciliationID: "rec-1", Drift: 100}
	assert.True(t, errors.Is(fmt.Errorf("x: %w", mismatch), ErrBalanceMismatch))
}

func TestEncodePayload(t *testing.T) {
	b, err := EncodePayload(TransactionSnapshot{Side: "bank", Count: 2, Amount: 1500})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"transaction","data":{"side":"bank","count":2,"amount":"15.00"}}`, string(b))

	b, err = EncodePayload(nil)
	require.NoError(t, err)
	assert.Nil(t, b)
}
