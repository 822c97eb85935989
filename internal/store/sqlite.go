package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Vault table mirroring the case archive, display order preserved
	CREATE TABLE IF NOT EXISTS vault (
		id TEXT PRIMARY KEY,
		ticker TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		position INTEGER NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Single-row draft table for the in-progress form
	CREATE TABLE IF NOT EXISTS drafts (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_vault_ticker ON vault(ticker);
	CREATE INDEX IF NOT EXISTS idx_vault_position ON vault(position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveVault replaces the persisted vault with the given entries, keeping
// their order.
func (s *SQLiteStore) SaveVault(ctx context.Context, entries []models.AnalysisResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "beginning vault transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM vault"); err != nil {
		return apperrors.Wrap(err, "clearing vault")
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO vault (id, ticker, timestamp, position, payload) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return apperrors.Wrap(err, "preparing vault insert")
	}
	defer stmt.Close()

	for i, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			return apperrors.Wrapf(err, "serializing vault entry %s", e.IdentityKey())
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Ticker, e.Timestamp, i, string(payload)); err != nil {
			return apperrors.Wrapf(err, "inserting vault entry %s", e.IdentityKey())
		}
	}

	return tx.Commit()
}

// LoadVault returns the persisted vault in display order.
func (s *SQLiteStore) LoadVault(ctx context.Context) ([]models.AnalysisResult, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT payload FROM vault ORDER BY position ASC")
	if err != nil {
		return nil, apperrors.Wrap(err, "querying vault")
	}
	defer rows.Close()

	var entries []models.AnalysisResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, apperrors.Wrap(err, "scanning vault row")
		}
		var entry models.AnalysisResult
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			return nil, apperrors.Wrap(err, "decoding vault entry")
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SaveDraft stores the in-progress form, replacing any previous draft.
func (s *SQLiteStore) SaveDraft(ctx context.Context, draft *models.StockAnalysisInput) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return apperrors.Wrap(err, "serializing draft")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (id, payload, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		string(payload))
	return apperrors.Wrap(err, "saving draft")
}

// LoadDraft returns the saved draft, or ErrDraftNotFound.
func (s *SQLiteStore) LoadDraft(ctx context.Context) (*models.StockAnalysisInput, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM drafts WHERE id = 1").Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrDraftNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "querying draft")
	}

	var draft models.StockAnalysisInput
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, apperrors.Wrap(err, "decoding draft")
	}
	return &draft, nil
}

// ClearDraft removes the saved draft. No-op when absent.
func (s *SQLiteStore) ClearDraft(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = 1")
	return apperrors.Wrap(err, "clearing draft")
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
