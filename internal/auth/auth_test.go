package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/internal/storage"
)

// memoryAccounts is an in-memory AccountStorage.
type memoryAccounts struct {
	mu       sync.Mutex
	accounts map[models.Address]*models.Account
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{accounts: make(map[models.Address]*models.Account)}
}

func (m *memoryAccounts) CreateAccount(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Address]; ok {
		return storage.ErrAccountExists
	}
	cp := *account
	m.accounts[account.Address] = &cp
	return nil
}

func (m *memoryAccounts) GetAccountByAddress(_ context.Context, address models.Address) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[address]
	if !ok {
		return nil, nil
	}
	cp := *account
	return &cp, nil
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, err := manager.Generate("0xA11CE")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.Address != "0xA11CE" {
			t.Errorf("Address = %q, want 0xA11CE", claims.Address)
		}
		if claims.Subject != "0xA11CE" {
			t.Errorf("Subject = %q, want 0xA11CE", claims.Subject)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := NewJWTManager("other-secret", time.Hour).Generate("0xA11CE")
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, _ := NewJWTManager("test-secret", -time.Minute).Generate("0xA11CE")
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := manager.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("token without address", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := token.SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("SignedString failed: %v", err)
		}
		if _, err := manager.Validate(signed); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	authenticator := NewPasswordAuthenticator(newMemoryAccounts())

	t.Run("register hashes the password", func(t *testing.T) {
		account, err := authenticator.Register(ctx, "0xA11CE", "Alice", "correct horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if account.PasswordHash == "correct horse" || !strings.HasPrefix(account.PasswordHash, "$2") {
			t.Errorf("PasswordHash %q is not a bcrypt hash", account.PasswordHash)
		}
		if account.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("register rejects weak password", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "0xB0B", "Bob", "short")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("error = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("register rejects taken address", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "0xA11CE", "Mallory", "another password")
		if !errors.Is(err, ErrAddressRegistered) {
			t.Errorf("error = %v, want ErrAddressRegistered", err)
		}
	})

	t.Run("authenticate", func(t *testing.T) {
		account, err := authenticator.Authenticate(ctx, "0xA11CE", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if account.Address != "0xA11CE" {
			t.Errorf("Address = %q, want 0xA11CE", account.Address)
		}
	})

	t.Run("authenticate wrong password", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "0xA11CE", "wrong password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("authenticate unknown address", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "0xNOBODY", "correct horse")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})
}
