package gateway

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/usecase"
)

// newTestPostgresStore connects to TEST_DATABASE_URL and skips the test when it is unset.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := ConnectDB(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPostgresStore(pool, zerolog.Nop())
	require.NoError(t, store.CreateSchema(ctx))
	return store
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	recID := uuid.NewString()

	rec := &domain.Reconciliation{
		ID: recID, ClientID: "client-1", Bank: "HW Bank", Account: "0001-9", Period: "2024-01",
		StartBalance: domain.MustParseAmount("1000.00"), Status: domain.StatusOpen,
		StartDate: domain.MustParseDate("2024-01-01"), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.CreateReconciliation(ctx, rec))

	bank := []domain.BankTransaction{
		{ID: "B1", Date: domain.MustParseDate("2024-01-15"), Description: "PIX received", Amount: domain.MustParseAmount("15000.00")},
		{ID: "B2", Date: domain.MustParseDate("2024-01-17"), Description: "PIX received", Amount: domain.MustParseAmount("1485.00")},
	}
	require.NoError(t, store.InsertBankTransactions(ctx, recID, bank))
	gotBank, err := store.ListBankTransactions(ctx, recID)
	require.NoError(t, err)
	assert.Equal(t, bank, gotBank)

	pairs := []domain.MatchPair{
		{BankTxID: "B2", SystemTxID: "S2", Confidence: domain.MatchFuzzy, DateDeltaDays: 1, AmountDelta: domain.MustParseAmount("-15.00")},
		{BankTxID: "B1", SystemTxID: "S1", Confidence: domain.MatchExact},
	}
	require.NoError(t, store.WithinTx(ctx, func(repo usecase.Repository) error {
		return repo.ReplaceMatchPairs(ctx, recID, pairs)
	}))
	gotPairs, err := store.ListMatchPairs(ctx, recID)
	require.NoError(t, err)
	assert.Equal(t, pairs, gotPairs)

	d := domain.Divergence{
		ID: uuid.NewString(), ReconciliationID: recID, Date: domain.MustParseDate("2024-01-16"),
		Description: "Amount mismatch: Invoice 1002 [bank B2 / system S2]", Status: domain.DivergenceInvestigating,
		CreatedAt: now, UpdatedAt: now,
	}
	d.SetValues(domain.MustParseAmount("1500.00"), domain.MustParseAmount("1485.00"))
	require.NoError(t, store.WithinTx(ctx, func(repo usecase.Repository) error {
		return repo.InsertDivergences(ctx, []domain.Divergence{d})
	}))

	got, err := store.GetDivergence(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MustParseAmount("-15.00"), got.Difference)

	_, err = store.GetReconciliation(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Log(ctx, domain.AuditEntry{
		Action: domain.AuditCreate, Entity: "reconciliation", EntityID: recID, Actor: "ana",
		NewData: domain.SnapshotReconciliation(rec), At: now,
	}))
}

func TestPostgresStore_WithinTxRollsBack(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()
	recID := uuid.NewString()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(repo usecase.Repository) error {
		now := time.Now()
		if err := repo.CreateReconciliation(ctx, &domain.Reconciliation{
			ID: recID, ClientID: "c", Bank: "b", Account: "a", Status: domain.StatusOpen, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.GetReconciliation(ctx, recID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
