package healthcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())

	assert.NotNil(t, hc)
	assert.Equal(t, "1.0.0", hc.version)
	assert.NotNil(t, hc.checkers)
}

func TestHealthCheck_Check_NoCheckers(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())

	response := hc.Check(context.Background())

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Empty(t, response.Checks)
}

func TestHealthCheck_Check_OneFailingDependency(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	hc.Register("database", NewPingChecker(func(context.Context) error { return nil }))
	hc.Register("cache", NewPingChecker(func(context.Context) error { return errors.New("connection refused") }))

	response := hc.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, response.Status)
	require.Len(t, response.Checks, 2)
	assert.Equal(t, "cache", response.Checks[0].Name)
	assert.Equal(t, StatusUnhealthy, response.Checks[0].Status)
	assert.Equal(t, "connection refused", response.Checks[0].Message)
	assert.Equal(t, "database", response.Checks[1].Name)
	assert.Equal(t, StatusHealthy, response.Checks[1].Status)
}

func TestHealthCheck_Check_CachesResult(t *testing.T) {
	calls := 0
	hc := New("1.0.0", zap.NewNop())
	hc.SetCacheTTL(time.Minute)
	hc.Register("database", NewPingChecker(func(context.Context) error {
		calls++
		return nil
	}))

	hc.Check(context.Background())
	hc.Check(context.Background())
	assert.Equal(t, 1, calls)

	hc.SetCacheTTL(0)
	hc.Check(context.Background())
	assert.Equal(t, 2, calls)
}

func TestLivenessHandler(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	hc.Register("database", NewPingChecker(func(context.Context) error { return errors.New("down") }))

	rec := httptest.NewRecorder()
	hc.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"alive"`)
}

func TestReadinessHandler(t *testing.T) {
	healthy := true
	hc := New("1.0.0", zap.NewNop())
	hc.SetCacheTTL(0)
	hc.Register("database", NewPingChecker(func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("down")
	}))

	rec := httptest.NewRecorder()
	hc.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)

	healthy = false
	rec = httptest.NewRecorder()
	hc.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"not_ready"`)
}
