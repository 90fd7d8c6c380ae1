package auth

import (
	"context"

	"github.com/mmynk/familysafe/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// signed challenges, etc.) without changing the service layer code.
type Authenticator interface {
	// Register creates a new account for address with the given credential.
	// Returns the created account or an error if registration fails.
	Register(ctx context.Context, address models.Address, displayName, credential string) (*models.Account, error)

	// Authenticate verifies the credential for address and returns the account.
	Authenticate(ctx context.Context, address models.Address, credential string) (*models.Account, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
