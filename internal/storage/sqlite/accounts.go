package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/internal/storage"
)

// CreateAccount inserts a new account into the database.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (address, display_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(address) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		string(account.Address),
		account.DisplayName,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	if n == 0 {
		return storage.ErrAccountExists
	}

	return nil
}

// GetAccountByAddress retrieves an account by its address.
func (s *SQLiteStore) GetAccountByAddress(ctx context.Context, address models.Address) (*models.Account, error) {
	query := `
		SELECT address, display_name, password_hash, created_at, updated_at
		FROM accounts
		WHERE address = ?
	`

	account := &models.Account{}
	var addr string
	err := s.db.QueryRowContext(ctx, query, string(address)).Scan(
		&addr,
		&account.DisplayName,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Account not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by address: %w", err)
	}

	account.Address = models.Address(addr)
	return account, nil
}
