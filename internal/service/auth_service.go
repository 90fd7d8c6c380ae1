package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/familysafe/internal/auth"
	"github.com/mmynk/familysafe/internal/middleware"
	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/pkg/api"
	"github.com/mmynk/familysafe/pkg/api/apiconnect"
)

var (
	errAccountNotFound = errors.New("account not found")
	errAddressMismatch = errors.New("token does not act as the address being registered")
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	accounts      auth.AccountStorage
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, accounts auth.AccountStorage, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		accounts:      accounts,
		logger:        logger,
	}
}

// Register creates a login for an address and returns a token for it.
// The caller must already hold a token for that address, issued by the
// operator with `familysafe token`. Registering does not make the address a
// family member.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	caller := middleware.GetCaller(ctx)
	if caller == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	s.logger.Info("Register request", "address", req.Msg.Address, "caller", caller)

	if req.Msg.Address == "" || req.Msg.DisplayName == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}
	if models.Address(req.Msg.Address) != caller {
		s.logger.Warn("Register for foreign address refused", "address", req.Msg.Address, "caller", caller)
		return nil, connect.NewError(connect.CodePermissionDenied, errAddressMismatch)
	}

	account, err := s.authenticator.Register(ctx, models.Address(req.Msg.Address), req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "address", req.Msg.Address, "error", err)
		switch {
		case errors.Is(err, auth.ErrAddressRegistered):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(account.Address)
	if err != nil {
		s.logger.Error("Failed to generate token", "address", account.Address, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Account registered", "address", account.Address)
	return connect.NewResponse(&api.RegisterResponse{
		Account: accountToAPI(account),
		Token:   token,
	}), nil
}

// Login verifies the password for an address and returns a token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "address", req.Msg.Address)

	if req.Msg.Address == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	account, err := s.authenticator.Authenticate(ctx, models.Address(req.Msg.Address), req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "address", req.Msg.Address, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(account.Address)
	if err != nil {
		s.logger.Error("Failed to generate token", "address", account.Address, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Logged in", "address", account.Address)
	return connect.NewResponse(&api.LoginResponse{
		Account: accountToAPI(account),
		Token:   token,
	}), nil
}

// GetCurrentAccount returns the account behind the caller's token.
func (s *AuthService) GetCurrentAccount(ctx context.Context, req *connect.Request[api.GetCurrentAccountRequest]) (*connect.Response[api.GetCurrentAccountResponse], error) {
	caller := middleware.GetCaller(ctx)
	if caller == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	s.logger.Info("GetCurrentAccount request", "address", caller)

	account, err := s.accounts.GetAccountByAddress(ctx, caller)
	if err != nil {
		s.logger.Error("Failed to load account", "address", caller, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	// Tokens minted by the CLI have no account behind them
	if account == nil {
		return nil, connect.NewError(connect.CodeNotFound, errAccountNotFound)
	}

	return connect.NewResponse(&api.GetCurrentAccountResponse{Account: accountToAPI(account)}), nil
}

func accountToAPI(a *models.Account) *api.Account {
	return &api.Account{
		Address:     a.Address.String(),
		DisplayName: a.DisplayName,
		CreatedAt:   a.CreatedAt,
	}
}
