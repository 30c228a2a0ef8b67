package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/infrastructure/security"
	apperrors "github.com/macrotrack/api/pkg/errors"
)

type contextKey int

const claimsKey contextKey = iota

// TokenValidator verifies bearer tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*security.Claims, error)
}

// AuthenticateAPI requires a valid, unrevoked bearer token and stores its
// claims on the request context
func AuthenticateAPI(tokens TokenValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperrors.NewUnauthorizedError("Authorization header required"), 0)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				WriteError(w, r, apperrors.NewUnauthorizedError("Invalid authorization header format"), 0)
				return
			}

			claims, err := tokens.ValidateToken(r.Context(), parts[1])
			if err != nil {
				switch {
				case errors.Is(err, security.ErrTokenRevoked):
					WriteError(w, r, apperrors.NewUnauthorizedError("Token has been revoked"), 0)
				case errors.Is(err, security.ErrInvalidToken):
					WriteError(w, r, apperrors.NewUnauthorizedError("Invalid or expired token"), 0)
				default:
					logger.Error("Token validation failed", zap.Error(err))
					WriteError(w, r, apperrors.NewServiceUnavailableError("token store", err), 0)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a context carrying claims
func WithClaims(ctx context.Context, claims *security.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims stored by AuthenticateAPI
func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user's id
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id := claims.UserUUID()
	return id, id != uuid.Nil
}
