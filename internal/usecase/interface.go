package usecase

import (
	"context"

	"hw-reconciliation/internal/domain"
)

// Repository defines the persistence operations the usecase layer depends on.
// Implementations return domain.ErrNotFound (wrapped) for missing rows.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type Repository interface {
	CreateReconciliation(ctx context.Context, rec *domain.Reconciliation) error
	GetReconciliation(ctx context.Context, id string) (*domain.Reconciliation, error)
	UpdateReconciliation(ctx context.Context, rec *domain.Reconciliation) error

	InsertBankTransactions(ctx context.Context, reconciliationID string, txs []domain.BankTransaction) error
	ListBankTransactions(ctx context.Context, reconciliationID string) ([]domain.BankTransaction, error)
	InsertSystemTransaction(ctx context.Context, reconciliationID string, tx domain.SystemTransaction) error
	ListSystemTransactions(ctx context.Context, reconciliationID string) ([]domain.SystemTransaction, error)

	ReplaceMatchPairs(ctx context.Context, reconciliationID string, pairs []domain.MatchPair) error
	ListMatchPairs(ctx context.Context, reconciliationID string) ([]domain.MatchPair, error)

	InsertDivergences(ctx context.Context, divergences []domain.Divergence) error
	UpdateDivergence(ctx context.Context, d domain.Divergence) error
	GetDivergence(ctx context.Context, id string) (*domain.Divergence, error)
	ListDivergences(ctx context.Context, reconciliationID string) ([]domain.Divergence, error)
}

// Store is a Repository that can run a group of calls atomically. Inside fn the
// given Repository is bound to the transaction; returning an error rolls it back.
type Store interface {
	Repository
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}

// AuditLogger receives an entry after every committed change. Delivery is best effort.
type AuditLogger interface {
	Log(ctx context.Context, entry domain.AuditEntry) error
}

// TransactionSource reads raw lines for the normalizer, e.g. from CSV files.
type TransactionSource interface {
	GetSystemLines(ctx context.Context, path string) ([]domain.RawLine, error)
	GetBankLines(ctx context.Context, paths []string) ([]domain.RawLine, error)
}
