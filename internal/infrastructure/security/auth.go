// Package security issues and verifies access tokens
package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/infrastructure/config"
	"github.com/macrotrack/api/internal/ports/outbound"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

const audience = "macrotrack-api"

// Claims represents JWT claims structure
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService signs and validates HS256 access tokens
type AuthService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	revoker    outbound.TokenRevoker
	logger     *zap.Logger
	now        func() time.Time
}

var _ outbound.TokenIssuer = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(cfg *config.Config, revoker outbound.TokenRevoker, logger *zap.Logger) *AuthService {
	return &AuthService{
		secret:     []byte(cfg.Auth.JWTSecret),
		issuer:     cfg.Auth.Issuer,
		expiration: cfg.Auth.JWTExpiration,
		revoker:    revoker,
		logger:     logger.Named("auth"),
		now:        time.Now,
	}
}

// GenerateAccessToken creates a new access token for the user
func (a *AuthService) GenerateAccessToken(userID uuid.UUID) (*outbound.AccessToken, error) {
	now := a.now()
	expires := now.Add(a.expiration)
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   userID.String(),
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(expires),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &outbound.AccessToken{Token: tokenString, ID: claims.ID, ExpiresAt: expires}, nil
}

// ValidateToken parses a token, checks its signature, expiry and audience, and
// rejects revoked ids
func (a *AuthService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithAudience(audience),
		jwt.WithIssuer(a.issuer),
		jwt.WithTimeFunc(a.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := a.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		// fail closed when the revocation list is unreachable
		a.logger.Error("Failed to check token revocation", zap.Error(err))
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// UserUUID returns the parsed user id of validated claims
func (c *Claims) UserUUID() uuid.UUID {
	id, _ := uuid.Parse(c.UserID)
	return id
}
