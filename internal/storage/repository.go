package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finbot/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the ledger document as the single row of
// ledger_snapshot and records one history row per save.
type SQLiteRepository struct {
	db     *sql.DB
	dbPath string
}

// SaveRecord is one row of the save history.
type SaveRecord struct {
	ID           int64
	ExpenseCount int
	TotalSpent   float64
	SavedAt      time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, dbPath: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Location() string {
	return r.dbPath
}

// Save implements SnapshotStore.
func (r *SQLiteRepository) Save(ctx context.Context, s core.Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return &core.PersistenceError{Op: "save", Path: r.dbPath, Err: err}
	}

	var total float64
	for _, e := range s.Expenses {
		total += e.Amount
	}
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.PersistenceError{Op: "save", Path: r.dbPath, Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_snapshot (id, document, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(data), now.Format(time.RFC3339))
	if err != nil {
		return &core.PersistenceError{Op: "save", Path: r.dbPath, Err: fmt.Errorf("upsert snapshot: %w", err)}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot_history (expense_count, total_spent, saved_at) VALUES (?, ?, ?)`,
		len(s.Expenses), total, now.Unix())
	if err != nil {
		return &core.PersistenceError{Op: "save", Path: r.dbPath, Err: fmt.Errorf("insert history: %w", err)}
	}

	if err := tx.Commit(); err != nil {
		return &core.PersistenceError{Op: "save", Path: r.dbPath, Err: fmt.Errorf("commit: %w", err)}
	}

	slog.DebugContext(ctx, "Snapshot saved to SQLite",
		"db_path", r.dbPath,
		"expenses", len(s.Expenses),
		"bytes", len(data))
	return nil
}

// Load implements SnapshotStore.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Snapshot, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM ledger_snapshot WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, fmt.Errorf("load %s: %w", r.dbPath, core.ErrNotFound)
	}
	if err != nil {
		return core.Snapshot{}, &core.PersistenceError{Op: "load", Path: r.dbPath, Err: err}
	}

	s, err := Decode([]byte(doc))
	if err != nil {
		return core.Snapshot{}, &core.PersistenceError{Op: "load", Path: r.dbPath, Err: err}
	}
	return s, nil
}

// History returns the most recent saves, newest first.
func (r *SQLiteRepository) History(ctx context.Context, limit int) ([]SaveRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, expense_count, total_spent, saved_at
		FROM snapshot_history
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []SaveRecord
	for rows.Next() {
		var rec SaveRecord
		var savedAt int64
		if err := rows.Scan(&rec.ID, &rec.ExpenseCount, &rec.TotalSpent, &savedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.SavedAt = time.Unix(savedAt, 0).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}
