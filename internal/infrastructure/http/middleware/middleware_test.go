package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/infrastructure/config"
	"github.com/macrotrack/api/internal/infrastructure/persistence/memory"
	"github.com/macrotrack/api/internal/infrastructure/security"
	"github.com/macrotrack/api/test/testutils"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newAuthService(t *testing.T) (*security.AuthService, *security.CacheRevoker) {
	t.Helper()
	cfg := &config.Config{Auth: config.AuthConfig{
		JWTSecret:     "middleware-test-secret-0123456789abcdef",
		JWTExpiration: time.Hour,
		Issuer:        "macrotrack",
	}}
	cache := memory.NewCacheRepository(0)
	t.Cleanup(func() { _ = cache.Close() })
	revoker := security.NewCacheRevoker(cache)
	return security.NewAuthService(cfg, revoker, zap.NewNop()), revoker
}

func TestAuthenticateAPI(t *testing.T) {
	auth, revoker := newAuthService(t)
	userID := uuid.New()
	token, err := auth.GenerateAccessToken(userID)
	require.NoError(t, err)

	var seen uuid.UUID
	h := AuthenticateAPI(auth, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"MissingHeader_ShouldReject", "", http.StatusUnauthorized},
		{"WrongScheme_ShouldReject", "Basic " + token.Token, http.StatusUnauthorized},
		{"Garbage_ShouldReject", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"ValidToken_ShouldPass", "Bearer " + token.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/fetchGoal", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				testutils.AssertErrorResponse(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
			}
		})
	}
	assert.Equal(t, userID, seen)

	t.Run("RevokedToken_ShouldReject", func(t *testing.T) {
		require.NoError(t, revoker.Revoke(context.Background(), token.ID, token.ExpiresAt))
		req := httptest.NewRequest(http.MethodGet, "/api/fetchGoal", nil)
		req.Header.Set("Authorization", "Bearer "+token.Token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		testutils.AssertErrorResponse(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
	})
}

type countingRejections struct{ n int }

func (c *countingRejections) RateLimited() { c.n++ }

func TestRateLimiterPerClient(t *testing.T) {
	counter := &countingRejections{}
	rl := NewRateLimiter(config.RateLimitConfig{
		Enable:          true,
		RequestsPerMin:  1,
		BurstSize:       2,
		CleanupInterval: time.Minute,
	}, counter, zap.NewNop())
	h := rl.Middleware(okHandler())

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1111"))
	assert.Equal(t, 1, counter.n)
}

func TestRateLimiterCleanupEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(config.RateLimitConfig{
		Enable:          true,
		RequestsPerMin:  60,
		BurstSize:       1,
		CleanupInterval: time.Minute,
	}, nil, zap.NewNop())
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(30 * time.Second)
	rl.Allow("b")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, rl.Cleanup())
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "b")
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enable: false}, nil, zap.NewNop())
	h := rl.Middleware(okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestJSONOnly(t *testing.T) {
	h := JSONOnly()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("food=apple"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"food":"apple"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/login", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	Security()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
