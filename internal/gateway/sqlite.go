package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/usecase"
)

const sqliteTimeLayout = time.RFC3339Nano

type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements usecase.Store and usecase.AuditLogger on SQLite.
// Use ":memory:" for a throwaway database.
type SQLiteStore struct {
	db     *sql.DB
	q      sqlQuerier
	inTx   bool
	logger zerolog.Logger
}

var (
	_ usecase.Store       = (*SQLiteStore)(nil)
	_ usecase.AuditLogger = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens the database and creates the schema.
func NewSQLiteStore(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, q: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reconciliations (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		bank TEXT NOT NULL,
		account TEXT NOT NULL,
		period TEXT NOT NULL DEFAULT '',
		start_balance INTEGER NOT NULL DEFAULT 0,
		end_balance INTEGER NOT NULL DEFAULT 0,
		bank_balance INTEGER NOT NULL DEFAULT 0,
		system_balance INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL CHECK (status IN ('OPEN', 'IN_PROGRESS', 'COMPLETED', 'FLAGGED')),
		responsible TEXT NOT NULL DEFAULT '',
		start_date TEXT,
		due_date TEXT,
		completed_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bank_transactions (
		reconciliation_id TEXT NOT NULL REFERENCES reconciliations(id),
		id TEXT NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		amount INTEGER NOT NULL,
		external_document_ref TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (reconciliation_id, id)
	);

	CREATE TABLE IF NOT EXISTS system_transactions (
		reconciliation_id TEXT NOT NULL REFERENCES reconciliations(id),
		id TEXT NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('CREDIT', 'DEBIT')),
		amount INTEGER NOT NULL CHECK (amount >= 0),
		category TEXT NOT NULL DEFAULT '',
		document TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (reconciliation_id, id)
	);

	CREATE TABLE IF NOT EXISTS match_pairs (
		reconciliation_id TEXT NOT NULL REFERENCES reconciliations(id),
		position INTEGER NOT NULL,
		bank_tx_id TEXT NOT NULL,
		system_tx_id TEXT NOT NULL,
		confidence TEXT NOT NULL CHECK (confidence IN ('EXACT', 'FUZZY')),
		date_delta_days INTEGER NOT NULL,
		amount_delta INTEGER NOT NULL,
		PRIMARY KEY (reconciliation_id, bank_tx_id),
		UNIQUE (reconciliation_id, system_tx_id)
	);

	CREATE TABLE IF NOT EXISTS divergences (
		id TEXT PRIMARY KEY,
		reconciliation_id TEXT NOT NULL REFERENCES reconciliations(id),
		divergence_key TEXT NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		expected_value INTEGER NOT NULL,
		actual_value INTEGER NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('investigating', 'resolved', 'ignored')),
		observation TEXT NOT NULL DEFAULT '',
		bank_tx_id TEXT NOT NULL DEFAULT '',
		system_tx_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (reconciliation_id, date, description)
	);

	CREATE INDEX IF NOT EXISTS idx_divergences_key ON divergences (reconciliation_id, divergence_key);

	CREATE TABLE IF NOT EXISTS audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		entity TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		actor TEXT NOT NULL,
		old_data TEXT,
		new_data TEXT,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) WithinTx(ctx context.Context, fn func(repo usecase.Repository) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer func() {
		if rx := tx.Rollback(); rx != nil && !errors.Is(rx, sql.ErrTxDone) {
			s.logger.Error().Err(rx).Msg("error rolling back transaction")
		}
	}()

	if err := fn(&SQLiteStore{db: s.db, q: tx, inTx: true, logger: s.logger}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateReconciliation(ctx context.Context, rec *domain.Reconciliation) error {
	query := `
	INSERT INTO reconciliations (id, client_id, bank, account, period, start_balance, end_balance,
		bank_balance, system_balance, status, responsible, start_date, due_date, completed_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	_, err := s.q.ExecContext(ctx, query, rec.ID, rec.ClientID, rec.Bank, rec.Account, rec.Period,
		int64(rec.StartBalance), int64(rec.EndBalance), int64(rec.BankBalance), int64(rec.SystemBalance),
		string(rec.Status), rec.Responsible, nullDate(rec.StartDate), nullDate(rec.DueDate),
		nullTime(rec.CompletedAt), formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("error inserting reconciliation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetReconciliation(ctx context.Context, id string) (*domain.Reconciliation, error) {
	query := `
	SELECT id, client_id, bank, account, period, start_balance, end_balance, bank_balance, system_balance,
		status, responsible, start_date, due_date, completed_at, created_at, updated_at
	FROM reconciliations
	WHERE id = ?`

	var (
		rec                                  domain.Reconciliation
		startBal, endBal, bankBal, systemBal int64
		status                               string
		startDate, dueDate, completedAt      sql.NullString
		createdAt, updatedAt                 string
	)
	err := s.q.QueryRowContext(ctx, query, id).Scan(&rec.ID, &rec.ClientID, &rec.Bank, &rec.Account, &rec.Period,
		&startBal, &endBal, &bankBal, &systemBal, &status, &rec.Responsible, &startDate, &dueDate,
		&completedAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reconciliation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying reconciliation: %w", err)
	}
	rec.StartBalance = domain.Amount(startBal)
	rec.EndBalance = domain.Amount(endBal)
	rec.BankBalance = domain.Amount(bankBal)
	rec.SystemBalance = domain.Amount(systemBal)
	rec.Status = domain.ReconciliationStatus(status)
	if rec.StartDate, err = parseNullDate(startDate); err != nil {
		return nil, err
	}
	if rec.DueDate, err = parseNullDate(dueDate); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t, err := time.Parse(sqliteTimeLayout, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at %q: %w", completedAt.String, err)
		}
		rec.CompletedAt = &t
	}
	if rec.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if rec.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return &rec, nil
}

func (s *SQLiteStore) UpdateReconciliation(ctx context.Context, rec *domain.Reconciliation) error {
	query := `
	UPDATE reconciliations
	SET period = ?, start_balance = ?, end_balance = ?, bank_balance = ?, system_balance = ?,
		status = ?, responsible = ?, start_date = ?, due_date = ?, completed_at = ?, updated_at = ?
	WHERE id = ?;`

	res, err := s.q.ExecContext(ctx, query, rec.Period, int64(rec.StartBalance), int64(rec.EndBalance),
		int64(rec.BankBalance), int64(rec.SystemBalance), string(rec.Status), rec.Responsible,
		nullDate(rec.StartDate), nullDate(rec.DueDate), nullTime(rec.CompletedAt), formatTime(rec.UpdatedAt), rec.ID)
	if err != nil {
		return fmt.Errorf("error updating reconciliation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("reconciliation %s: %w", rec.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) InsertBankTransactions(ctx context.Context, reconciliationID string, txs []domain.BankTransaction) error {
	query := `
	INSERT INTO bank_transactions (reconciliation_id, id, date, description, amount, external_document_ref)
	VALUES (?, ?, ?, ?, ?, ?);`
	for _, tx := range txs {
		_, err := s.q.ExecContext(ctx, query, reconciliationID, tx.ID, tx.Date.String(), tx.Description,
			int64(tx.Amount), tx.ExternalDocumentRef)
		if err != nil {
			return fmt.Errorf("error inserting bank transaction %s: %w", tx.ID, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListBankTransactions(ctx context.Context, reconciliationID string) ([]domain.BankTransaction, error) {
	query := `
	SELECT id, date, description, amount, external_document_ref
	FROM bank_transactions
	WHERE reconciliation_id = ?
	ORDER BY id;`

	rows, err := s.q.QueryContext(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("error querying bank transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.BankTransaction, 0)
	for rows.Next() {
		var (
			tx     domain.BankTransaction
			date   string
			amount int64
		)
		if err := rows.Scan(&tx.ID, &date, &tx.Description, &amount, &tx.ExternalDocumentRef); err != nil {
			return nil, fmt.Errorf("error scanning bank transaction: %w", err)
		}
		if tx.Date, err = domain.ParseDate(date); err != nil {
			return nil, err
		}
		tx.Amount = domain.Amount(amount)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return txs, nil
}

func (s *SQLiteStore) InsertSystemTransaction(ctx context.Context, reconciliationID string, tx domain.SystemTransaction) error {
	query := `
	INSERT INTO system_transactions (reconciliation_id, id, date, description, type, amount, category, document)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	_, err := s.q.ExecContext(ctx, query, reconciliationID, tx.ID, tx.Date.String(), tx.Description,
		string(tx.Type), int64(tx.Amount), tx.Category, tx.Document)
	if err != nil {
		return fmt.Errorf("error inserting system transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListSystemTransactions(ctx context.Context, reconciliationID string) ([]domain.SystemTransaction, error) {
	query := `
	SELECT id, date, description, type, amount, category, document
	FROM system_transactions
	WHERE reconciliation_id = ?
	ORDER BY id;`

	rows, err := s.q.QueryContext(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("error querying system transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.SystemTransaction, 0)
	for rows.Next() {
		var (
			tx     domain.SystemTransaction
			date   string
			txType string
			amount int64
		)
		if err := rows.Scan(&tx.ID, &date, &tx.Description, &txType, &amount, &tx.Category, &tx.Document); err != nil {
			return nil, fmt.Errorf("error scanning system transaction: %w", err)
		}
		if tx.Date, err = domain.ParseDate(date); err != nil {
			return nil, err
		}
		tx.Type = domain.TransactionType(txType)
		tx.Amount = domain.Amount(amount)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return txs, nil
}

func (s *SQLiteStore) ReplaceMatchPairs(ctx context.Context, reconciliationID string, pairs []domain.MatchPair) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM match_pairs WHERE reconciliation_id = ?;`, reconciliationID); err != nil {
		return fmt.Errorf("error deleting match pairs: %w", err)
	}
	query := `
	INSERT INTO match_pairs (reconciliation_id, position, bank_tx_id, system_tx_id, confidence, date_delta_days, amount_delta)
	VALUES (?, ?, ?, ?, ?, ?, ?);`
	for i, p := range pairs {
		_, err := s.q.ExecContext(ctx, query, reconciliationID, i, p.BankTxID, p.SystemTxID, string(p.Confidence),
			p.DateDeltaDays, int64(p.AmountDelta))
		if err != nil {
			return fmt.Errorf("error inserting match pair: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListMatchPairs(ctx context.Context, reconciliationID string) ([]domain.MatchPair, error) {
	query := `
	SELECT bank_tx_id, system_tx_id, confidence, date_delta_days, amount_delta
	FROM match_pairs
	WHERE reconciliation_id = ?
	ORDER BY position;`

	rows, err := s.q.QueryContext(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("error querying match pairs: %w", err)
	}
	defer rows.Close()

	pairs := make([]domain.MatchPair, 0)
	for rows.Next() {
		var (
			p          domain.MatchPair
			confidence string
			delta      int64
		)
		if err := rows.Scan(&p.BankTxID, &p.SystemTxID, &confidence, &p.DateDeltaDays, &delta); err != nil {
			return nil, fmt.Errorf("error scanning match pair: %w", err)
		}
		p.Confidence = domain.MatchConfidence(confidence)
		p.AmountDelta = domain.Amount(delta)
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return pairs, nil
}

func (s *SQLiteStore) InsertDivergences(ctx context.Context, divergences []domain.Divergence) error {
	query := `
	INSERT INTO divergences (id, reconciliation_id, divergence_key, date, description, expected_value, actual_value,
		status, observation, bank_tx_id, system_tx_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	for _, d := range divergences {
		_, err := s.q.ExecContext(ctx, query, d.ID, d.ReconciliationID, d.Key().String(), d.Date.String(),
			d.Description, int64(d.ExpectedValue), int64(d.ActualValue), string(d.Status), d.Observation,
			d.BankTxID, d.SystemTxID, formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
		if err != nil {
			return fmt.Errorf("error inserting divergence: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) UpdateDivergence(ctx context.Context, d domain.Divergence) error {
	query := `
	UPDATE divergences
	SET expected_value = ?, actual_value = ?, status = ?, observation = ?, updated_at = ?
	WHERE id = ?;`

	res, err := s.q.ExecContext(ctx, query, int64(d.ExpectedValue), int64(d.ActualValue), string(d.Status),
		d.Observation, formatTime(d.UpdatedAt), d.ID)
	if err != nil {
		return fmt.Errorf("error updating divergence: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("divergence %s: %w", d.ID, domain.ErrNotFound)
	}
	return nil
}

const sqliteDivergenceColumns = `id, reconciliation_id, date, description, expected_value, actual_value,
	status, observation, bank_tx_id, system_tx_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) GetDivergence(ctx context.Context, id string) (*domain.Divergence, error) {
	query := `SELECT ` + sqliteDivergenceColumns + ` FROM divergences WHERE id = ?`
	d, err := scanSQLiteDivergence(s.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("divergence %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying divergence: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) ListDivergences(ctx context.Context, reconciliationID string) ([]domain.Divergence, error) {
	query := `SELECT ` + sqliteDivergenceColumns + ` FROM divergences WHERE reconciliation_id = ? ORDER BY date, description`
	rows, err := s.q.QueryContext(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("error querying divergences: %w", err)
	}
	defer rows.Close()

	divergences := make([]domain.Divergence, 0)
	for rows.Next() {
		d, err := scanSQLiteDivergence(rows)
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

func scanSQLiteDivergence(row rowScanner) (*domain.Divergence, error) {
	var (
		d                          domain.Divergence
		date, createdAt, updatedAt string
		expected, actual           int64
		status                     string
	)
	err := row.Scan(&d.ID, &d.ReconciliationID, &date, &d.Description, &expected, &actual,
		&status, &d.Observation, &d.BankTxID, &d.SystemTxID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if d.Date, err = domain.ParseDate(date); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return nil, err
	}
	d.SetValues(domain.Amount(expected), domain.Amount(actual))
	d.Status = domain.DivergenceStatus(status)
	return &d, nil
}

// Log writes an audit entry to audit_logs.
func (s *SQLiteStore) Log(ctx context.Context, entry domain.AuditEntry) error {
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
	VALUES (?, ?, ?, ?, ?, ?, ?);`

	_, err = s.q.ExecContext(ctx, query, string(entry.Action), entry.Entity, entry.EntityID, entry.Actor,
		jsonArg(oldData), jsonArg(newData), formatTime(entry.At))
	if err != nil {
		return fmt.Errorf("error inserting audit log: %w", err)
	}
	return nil
}

// CountAuditLogs returns how many audit rows exist for an entity.
func (s *SQLiteStore) CountAuditLogs(ctx context.Context, entityID string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE entity_id = ?`, entityID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting audit logs: %w", err)
	}
	return n, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullDate(d domain.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func parseNullDate(s sql.NullString) (domain.Date, error) {
	if !s.Valid || s.String == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(s.String)
}
