package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid address or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrAddressRegistered  = errors.New("address already registered")
)

// AccountStorage defines the interface for account persistence operations.
// This allows the authenticator to be independent of the storage implementation.
type AccountStorage interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByAddress(ctx context.Context, address models.Address) (*models.Account, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage AccountStorage
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage AccountStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, address models.Address, displayName, credential string) (*models.Account, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	existing, err := a.storage.GetAccountByAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if existing != nil {
		return nil, ErrAddressRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.NewAccount(address, displayName, string(hashedPassword))

	if err := a.storage.CreateAccount(ctx, account); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, storage.ErrAccountExists) {
			return nil, ErrAddressRegistered
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// Authenticate verifies the address and password, returning the account if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, address models.Address, credential string) (*models.Account, error) {
	account, err := a.storage.GetAccountByAddress(ctx, address)
	if err != nil || account == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}
