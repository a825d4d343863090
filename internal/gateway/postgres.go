package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/usecase"
)

func ConnectDB(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return dbpool, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresStore implements usecase.Store and usecase.AuditLogger on PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	q      querier
	inTx   bool
	logger zerolog.Logger
}

var (
	_ usecase.Store       = (*PostgresStore)(nil)
	_ usecase.AuditLogger = (*PostgresStore)(nil)
)

func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, q: pool, logger: logger}
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS reconciliations (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		bank TEXT NOT NULL,
		account TEXT NOT NULL,
		period TEXT NOT NULL DEFAULT '',
		start_balance BIGINT NOT NULL DEFAULT 0,
		end_balance BIGINT NOT NULL DEFAULT 0,
		bank_balance BIGINT NOT NULL DEFAULT 0,
		system_balance BIGINT NOT NULL DEFAULT 0,
		difference BIGINT GENERATED ALWAYS AS (bank_balance - system_balance) STORED,
		status VARCHAR(20) NOT NULL CHECK (status IN ('OPEN', 'IN_PROGRESS', 'COMPLETED', 'FLAGGED')),
		responsible TEXT NOT NULL DEFAULT '',
		start_date DATE,
		due_date DATE,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS bank_transactions (
		reconciliation_id TEXT NOT NULL REFERENCES reconciliations(id),
		id TEXT NOT NULL,
		date DATE NOT NULL,
		description TEXT NOT NULL,
		amount BIGINT NOT NULL,
		external_document_ref TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (reconciliation_id, id)
	);`,
	`CREATE TABLE IF NOT EXISTS system_transactions (
		reconciliation_id TEXT NOT NULL REFERENCES reconciliations(id),
		id TEXT NOT NULL,
		date DATE NOT NULL,
		description TEXT NOT NULL,
		type VARCHAR(10) NOT NULL CHECK (type IN ('CREDIT', 'DEBIT')),
		amount BIGINT NOT NULL CHECK (amount >= 0),
		category TEXT NOT NULL DEFAULT '',
		document TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (reconciliation_id, id)
	);`,
	`CREATE TABLE IF NOT EXISTS match_pairs (
		reconciliation_id TEXT NOT NULL REFERENCES reconciliations(id),
		position INTEGER NOT NULL,
		bank_tx_id TEXT NOT NULL,
		system_tx_id TEXT NOT NULL,
		confidence VARCHAR(10) NOT NULL CHECK (confidence IN ('EXACT', 'FUZZY')),
		date_delta_days INTEGER NOT NULL,
		amount_delta BIGINT NOT NULL,
		PRIMARY KEY (reconciliation_id, bank_tx_id),
		UNIQUE (reconciliation_id, system_tx_id)
	);`,
	`CREATE TABLE IF NOT EXISTS divergences (
		id TEXT PRIMARY KEY,
		reconciliation_id TEXT NOT NULL REFERENCES reconciliations(id),
		divergence_key TEXT NOT NULL,
		date DATE NOT NULL,
		description TEXT NOT NULL,
		expected_value BIGINT NOT NULL,
		actual_value BIGINT NOT NULL,
		difference BIGINT GENERATED ALWAYS AS (actual_value - expected_value) STORED,
		status VARCHAR(20) NOT NULL CHECK (status IN ('investigating', 'resolved', 'ignored')),
		observation TEXT NOT NULL DEFAULT '',
		bank_tx_id TEXT NOT NULL DEFAULT '',
		system_tx_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (reconciliation_id, date, description)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_divergences_key ON divergences (reconciliation_id, divergence_key);`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		action VARCHAR(20) NOT NULL,
		entity VARCHAR(50) NOT NULL,
		entity_id TEXT NOT NULL,
		actor TEXT NOT NULL,
		old_data JSONB,
		new_data JSONB,
		created_at TIMESTAMPTZ NOT NULL
	);`,
}

// CreateSchema creates the tables if they do not exist.
func (s *PostgresStore) CreateSchema(ctx context.Context) error {
	for _, query := range postgresSchema {
		if _, err := s.q.Exec(ctx, query); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}
	return nil
}

// WithinTx runs fn inside one database transaction. Nested calls reuse the outer one.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(repo usecase.Repository) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer func() {
		if rx := tx.Rollback(ctx); rx != nil && !errors.Is(rx, pgx.ErrTxClosed) {
			s.logger.Error().Err(rx).Msg("error rolling back transaction")
		}
	}()

	if err := fn(&PostgresStore{pool: s.pool, q: tx, inTx: true, logger: s.logger}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateReconciliation(ctx context.Context, rec *domain.Reconciliation) error {
	query := `
	INSERT INTO reconciliations (id, client_id, bank, account, period, start_balance, end_balance,
		bank_balance, system_balance, status, responsible, start_date, due_date, completed_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`

	_, err := s.q.Exec(ctx, query, rec.ID, rec.ClientID, rec.Bank, rec.Account, rec.Period,
		int64(rec.StartBalance), int64(rec.EndBalance), int64(rec.BankBalance), int64(rec.SystemBalance),
		string(rec.Status), rec.Responsible, dateArg(rec.StartDate), dateArg(rec.DueDate), rec.CompletedAt,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reconciliation: %w", err)
	}
	return nil
}

// GetReconciliation locks the row when called inside WithinTx.
func (s *PostgresStore) GetReconciliation(ctx context.Context, id string) (*domain.Reconciliation, error) {
	query := `
	SELECT id, client_id, bank, account, period, start_balance, end_balance, bank_balance, system_balance,
		status, responsible, start_date, due_date, completed_at, created_at, updated_at
	FROM reconciliations
	WHERE id = $1`
	if s.inTx {
		query += ` FOR UPDATE`
	}

	var (
		rec                                  domain.Reconciliation
		startBal, endBal, bankBal, systemBal int64
		status                               string
		startDate, dueDate                   *time.Time
	)
	err := s.q.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.ClientID, &rec.Bank, &rec.Account, &rec.Period,
		&startBal, &endBal, &bankBal, &systemBal, &status, &rec.Responsible, &startDate, &dueDate,
		&rec.CompletedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reconciliation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying reconciliation: %w", err)
	}
	rec.StartBalance = domain.Amount(startBal)
	rec.EndBalance = domain.Amount(endBal)
	rec.BankBalance = domain.Amount(bankBal)
	rec.SystemBalance = domain.Amount(systemBal)
	rec.Status = domain.ReconciliationStatus(status)
	rec.StartDate = dateFrom(startDate)
	rec.DueDate = dateFrom(dueDate)
	return &rec, nil
}

func (s *PostgresStore) UpdateReconciliation(ctx context.Context, rec *domain.Reconciliation) error {
	query := `
	UPDATE reconciliations
	SET period = $2, start_balance = $3, end_balance = $4, bank_balance = $5, system_balance = $6,
		status = $7, responsible = $8, start_date = $9, due_date = $10, completed_at = $11, updated_at = $12
	WHERE id = $1;`

	tag, err := s.q.Exec(ctx, query, rec.ID, rec.Period, int64(rec.StartBalance), int64(rec.EndBalance),
		int64(rec.BankBalance), int64(rec.SystemBalance), string(rec.Status), rec.Responsible,
		dateArg(rec.StartDate), dateArg(rec.DueDate), rec.CompletedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error updating reconciliation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reconciliation %s: %w", rec.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) InsertBankTransactions(ctx context.Context, reconciliationID string, txs []domain.BankTransaction) error {
	columnNames := []string{"reconciliation_id", "id", "date", "description", "amount", "external_document_ref"}
	copySource := pgx.CopyFromSlice(len(txs), func(i int) ([]any, error) {
		tx := txs[i]
		return []any{reconciliationID, tx.ID, tx.Date.Time(), tx.Description, int64(tx.Amount), tx.ExternalDocumentRef}, nil
	})
	if _, err := s.q.CopyFrom(ctx, pgx.Identifier{"bank_transactions"}, columnNames, copySource); err != nil {
		return fmt.Errorf("unable to copy bank transactions: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBankTransactions(ctx context.Context, reconciliationID string) ([]domain.BankTransaction, error) {
	query := `
	SELECT id, date, description, amount, external_document_ref
	FROM bank_transactions
	WHERE reconciliation_id = $1
	ORDER BY id;`

	rows, err := s.q.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("error querying bank transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.BankTransaction, 0)
	for rows.Next() {
		var (
			tx     domain.BankTransaction
			date   time.Time
			amount int64
		)
		if err := rows.Scan(&tx.ID, &date, &tx.Description, &amount, &tx.ExternalDocumentRef); err != nil {
			return nil, fmt.Errorf("error scanning bank transaction: %w", err)
		}
		tx.Date = domain.DateOf(date)
		tx.Amount = domain.Amount(amount)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return txs, nil
}

func (s *PostgresStore) InsertSystemTransaction(ctx context.Context, reconciliationID string, tx domain.SystemTransaction) error {
	query := `
	INSERT INTO system_transactions (reconciliation_id, id, date, description, type, amount, category, document)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	_, err := s.q.Exec(ctx, query, reconciliationID, tx.ID, tx.Date.Time(), tx.Description, string(tx.Type),
		int64(tx.Amount), tx.Category, tx.Document)
	if err != nil {
		return fmt.Errorf("error inserting system transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSystemTransactions(ctx context.Context, reconciliationID string) ([]domain.SystemTransaction, error) {
	query := `
	SELECT id, date, description, type, amount, category, document
	FROM system_transactions
	WHERE reconciliation_id = $1
	ORDER BY id;`

	rows, err := s.q.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("error querying system transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.SystemTransaction, 0)
	for rows.Next() {
		var (
			tx     domain.SystemTransaction
			date   time.Time
			txType string
			amount int64
		)
		if err := rows.Scan(&tx.ID, &date, &tx.Description, &txType, &amount, &tx.Category, &tx.Document); err != nil {
			return nil, fmt.Errorf("error scanning system transaction: %w", err)
		}
		tx.Date = domain.DateOf(date)
		tx.Type = domain.TransactionType(txType)
		tx.Amount = domain.Amount(amount)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return txs, nil
}

// ReplaceMatchPairs drops the previous run's pairs and stores the new ones in rank order.
func (s *PostgresStore) ReplaceMatchPairs(ctx context.Context, reconciliationID string, pairs []domain.MatchPair) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM match_pairs WHERE reconciliation_id = $1;`, reconciliationID); err != nil {
		return fmt.Errorf("error deleting match pairs: %w", err)
	}
	if len(pairs) == 0 {
		return nil
	}
	columnNames := []string{"reconciliation_id", "position", "bank_tx_id", "system_tx_id", "confidence", "date_delta_days", "amount_delta"}
	copySource := pgx.CopyFromSlice(len(pairs), func(i int) ([]any, error) {
		p := pairs[i]
		return []any{reconciliationID, int32(i), p.BankTxID, p.SystemTxID, string(p.Confidence), int32(p.DateDeltaDays), int64(p.AmountDelta)}, nil
	})
	if _, err := s.q.CopyFrom(ctx, pgx.Identifier{"match_pairs"}, columnNames, copySource); err != nil {
		return fmt.Errorf("unable to copy match pairs: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListMatchPairs(ctx context.Context, reconciliationID string) ([]domain.MatchPair, error) {
	query := `
	SELECT bank_tx_id, system_tx_id, confidence, date_delta_days, amount_delta
	FROM match_pairs
	WHERE reconciliation_id = $1
	ORDER BY position;`

	rows, err := s.q.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("error querying match pairs: %w", err)
	}
	defer rows.Close()

	pairs := make([]domain.MatchPair, 0)
	for rows.Next() {
		var (
			p          domain.MatchPair
			confidence string
			dateDelta  int32
			delta      int64
		)
		if err := rows.Scan(&p.BankTxID, &p.SystemTxID, &confidence, &dateDelta, &delta); err != nil {
			return nil, fmt.Errorf("error scanning match pair: %w", err)
		}
		p.Confidence = domain.MatchConfidence(confidence)
		p.DateDeltaDays = int(dateDelta)
		p.AmountDelta = domain.Amount(delta)
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return pairs, nil
}

func (s *PostgresStore) InsertDivergences(ctx context.Context, divergences []domain.Divergence) error {
	query := `
	INSERT INTO divergences (id, reconciliation_id, divergence_key, date, description, expected_value, actual_value,
		status, observation, bank_tx_id, system_tx_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	batch := &pgx.Batch{}
	for _, d := range divergences {
		batch.Queue(query, d.ID, d.ReconciliationID, d.Key().String(), d.Date.Time(), d.Description,
			int64(d.ExpectedValue), int64(d.ActualValue), string(d.Status), d.Observation,
			d.BankTxID, d.SystemTxID, d.CreatedAt, d.UpdatedAt)
	}
	results := s.sendBatch(ctx, batch)
	defer results.Close()
	for range divergences {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error inserting divergence: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) sendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults {
	if tx, ok := s.q.(pgx.Tx); ok {
		return tx.SendBatch(ctx, batch)
	}
	return s.pool.SendBatch(ctx, batch)
}

func (s *PostgresStore) UpdateDivergence(ctx context.Context, d domain.Divergence) error {
	query := `
	UPDATE divergences
	SET expected_value = $2, actual_value = $3, status = $4, observation = $5, updated_at = $6
	WHERE id = $1;`

	tag, err := s.q.Exec(ctx, query, d.ID, int64(d.ExpectedValue), int64(d.ActualValue), string(d.Status),
		d.Observation, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error updating divergence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("divergence %s: %w", d.ID, domain.ErrNotFound)
	}
	return nil
}

const divergenceColumns = `id, reconciliation_id, date, description, expected_value, actual_value, difference,
	status, observation, bank_tx_id, system_tx_id, created_at, updated_at`

func (s *PostgresStore) GetDivergence(ctx context.Context, id string) (*domain.Divergence, error) {
	query := `SELECT ` + divergenceColumns + ` FROM divergences WHERE id = $1`
	d, err := scanDivergence(s.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("divergence %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying divergence: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) ListDivergences(ctx context.Context, reconciliationID string) ([]domain.Divergence, error) {
	query := `SELECT ` + divergenceColumns + ` FROM divergences WHERE reconciliation_id = $1 ORDER BY date, description`
	rows, err := s.q.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("error querying divergences: %w", err)
	}
	defer rows.Close()

	divergences := make([]domain.Divergence, 0)
	for rows.Next() {
		d, err := scanDivergence(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning divergence: %w", err)
		}
		divergences = append(divergences, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return divergences, nil
}

func scanDivergence(row pgx.Row) (*domain.Divergence, error) {
	var (
		d                            domain.Divergence
		date                         time.Time
		expected, actual, difference int64
		status                       string
	)
	err := row.Scan(&d.ID, &d.ReconciliationID, &date, &d.Description, &expected, &actual, &difference,
		&status, &d.Observation, &d.BankTxID, &d.SystemTxID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Date = domain.DateOf(date)
	d.ExpectedValue = domain.Amount(expected)
	d.ActualValue = domain.Amount(actual)
	d.Difference = domain.Amount(difference)
	d.Status = domain.DivergenceStatus(status)
	return &d, nil
}

// Log writes an audit entry to audit_logs.
func (s *PostgresStore) Log(ctx context.Context, entry domain.AuditEntry) error {
	oldData, err := domain.EncodePayload(entry.OldData)
	if err != nil {
		return fmt.Errorf("error encoding audit payload: %w", err)
	}
	newData, err := domain.EncodePayload(entry.NewData)
	if err != nil {
		return fmt.Errorf("error encoding audit payload: %w", err)
	}
	query := `
	INSERT INTO audit_logs (action, entity, entity_id, actor, old_data, new_data, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err = s.q.Exec(ctx, query, string(entry.Action), entry.Entity, entry.EntityID, entry.Actor,
		jsonArg(oldData), jsonArg(newData), entry.At)
	if err != nil {
		return fmt.Errorf("error inserting audit log: %w", err)
	}
	return nil
}

func dateArg(d domain.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time()
}

func dateFrom(t *time.Time) domain.Date {
	if t == nil {
		return domain.Date{}
	}
	return domain.DateOf(*t)
}

func jsonArg(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
