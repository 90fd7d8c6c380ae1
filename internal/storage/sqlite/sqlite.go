// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/familysafe/internal/calculator"
	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/internal/safe"
	"github.com/mmynk/familysafe/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The safe serializes its own writes; one connection keeps SQLite from
	// reporting SQLITE_BUSY to concurrent readers.
	db.SetMaxOpenConns(1)

	// Wait for locks held by other processes instead of failing fast
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Begin opens a ledger transaction.
func (s *SQLiteStore) Begin(ctx context.Context) (safe.LedgerTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &ledgerTx{tx: tx}, nil
}

// LoadState reads the registry and replays the event journal into a balance.
func (s *SQLiteStore) LoadState(ctx context.Context) (models.State, error) {
	members, err := s.ListMembers(ctx)
	if err != nil {
		return models.State{}, err
	}

	events, err := s.ListEvents(ctx, 0, 0)
	if err != nil {
		return models.State{}, err
	}

	balance, err := calculator.NetBalance(events)
	if err != nil {
		return models.State{}, fmt.Errorf("corrupt event journal: %w", err)
	}

	state := models.State{Members: members, Balance: balance}
	if len(events) > 0 {
		state.LastSeq = events[len(events)-1].Seq
	}
	return state, nil
}

// ledgerTx implements safe.LedgerTx on a database transaction.
type ledgerTx struct {
	tx *sql.Tx
}

// AppendEvent inserts ev and sets ev.Seq from the autoincrement key.
func (t *ledgerTx) AppendEvent(ctx context.Context, ev *models.Event) error {
	if !ev.Kind.Valid() {
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	result, err := t.tx.ExecContext(ctx,
		"INSERT INTO events (id, kind, address, amount, time) VALUES (?, ?, ?, ?, ?)",
		ev.ID, string(ev.Kind), string(ev.Address), formatAmount(ev.Amount), ev.Time,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read event sequence: %w", err)
	}
	ev.Seq = seq
	return nil
}

// AddMember inserts member unless the address is already registered.
func (t *ledgerTx) AddMember(ctx context.Context, member models.Member) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO members (address, added_at) VALUES (?, ?) ON CONFLICT(address) DO NOTHING",
		string(member.Address), member.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func (t *ledgerTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction; after Commit it is a no-op.
func (t *ledgerTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}
