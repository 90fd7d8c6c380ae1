// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/internal/safe"
)

// Store defines the interface for family safe storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// Store journals safe operations and restores safe state.
	safe.Ledger

	// ListEvents returns journaled events with Seq > afterSeq in ascending
	// order, at most limit of them. A limit <= 0 returns all remaining events.
	ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*models.Event, error)

	// ListMembers returns the member registry sorted by address.
	ListMembers(ctx context.Context) ([]models.Member, error)

	// CreateAccount persists a new account.
	// Returns ErrAccountExists if the address is already registered.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccountByAddress retrieves an account.
	// Returns nil and no error if the address has no account.
	GetAccountByAddress(ctx context.Context, address models.Address) (*models.Account, error)

	// Close releases any resources held by the store.
	Close() error
}
