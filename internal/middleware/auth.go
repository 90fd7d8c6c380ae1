package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/familysafe/internal/auth"
	"github.com/mmynk/familysafe/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// CallerKey is the context key for the authenticated caller address.
const CallerKey contextKey = "caller"

// GetCaller extracts the caller address from the context.
// Returns empty string if not found.
func GetCaller(ctx context.Context) models.Address {
	caller, _ := ctx.Value(CallerKey).(models.Address)
	return caller
}

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller models.Address) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

// bearerToken pulls the token out of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth returns an interceptor that rejects requests without a valid
// bearer token and stores the token's address as the caller.
// When procedures are given, only those procedures are guarded and all
// others pass through without a caller.
func RequireAuth(jwtManager *auth.JWTManager, procedures ...string) connect.UnaryInterceptorFunc {
	guarded := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		guarded[p] = true
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if len(guarded) > 0 && !guarded[req.Spec().Procedure] {
				return next(ctx, req)
			}

			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithCaller(ctx, models.Address(claims.Address)), req)
		}
	}
}

// OptionalAuth returns an interceptor that records the caller when a valid
// token is present and otherwise passes the request through anonymously.
// Handlers that need a caller check GetCaller themselves.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, ok := bearerToken(req.Header().Get("Authorization")); ok {
				// Invalid tokens are treated as anonymous
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithCaller(ctx, models.Address(claims.Address))
				}
			}
			return next(ctx, req)
		}
	}
}
