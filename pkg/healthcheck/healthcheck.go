// Package healthcheck serves the liveness and readiness probes. Readiness
// fans out to registered dependency pings and caches the verdict briefly.
package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status of a single dependency or of the whole service
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Check is the outcome of one dependency probe
type Check struct {
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Message    string    `json:"message,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
	DurationMS int64     `json:"duration_ms"`
}

// Response aggregates every probe of one readiness evaluation
type Response struct {
	Status     Status    `json:"status"`
	Version    string    `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
	Checks     []Check   `json:"checks"`
	DurationMS int64     `json:"duration_ms"`
}

type Checker interface {
	Check(ctx context.Context) Check
}

// HealthCheck owns the registered probes and the cached readiness verdict
type HealthCheck struct {
	version  string
	checkers map[string]Checker
	logger   *zap.Logger
	timeout  time.Duration
	mu       sync.RWMutex
	cache    *Response
	cacheTTL time.Duration
}

// New creates a new health check instance
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		checkers: make(map[string]Checker),
		logger:   logger,
		timeout:  5 * time.Second,
		cacheTTL: 2 * time.Second,
	}
}

// Register registers a health checker
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
	h.cache = nil
}

// SetCacheTTL sets how long a readiness result is reused. Zero disables it.
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
}

// LivenessHandler answers 200 as long as the process can serve requests
func (h *HealthCheck) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "alive",
			"version":   h.version,
			"timestamp": time.Now().UTC(),
		})
	}
}

// ReadinessHandler answers 200 only when every registered check passes
func (h *HealthCheck) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := h.Check(r.Context())
		if response.Status != StatusHealthy {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not_ready",
				"reason": "Health checks failed",
				"checks": response.Checks,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ready",
			"timestamp": response.Timestamp,
			"checks":    response.Checks,
		})
	}
}

// Check runs every probe in parallel under a shared timeout. A result
// younger than the cache TTL is returned without probing again.
func (h *HealthCheck) Check(ctx context.Context) Response {
	h.mu.RLock()
	if h.cache != nil && time.Since(h.cache.Timestamp) < h.cacheTTL {
		cached := *h.cache
		h.mu.RUnlock()
		return cached
	}
	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	probes := make([]Checker, len(names))
	for i, name := range names {
		probes[i] = h.checkers[name]
	}
	h.mu.RUnlock()

	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	results := make([]Check, len(probes))
	var wg sync.WaitGroup
	for i, probe := range probes {
		wg.Add(1)
		go func(i int, probe Checker) {
			defer wg.Done()
			results[i] = probe.Check(checkCtx)
			results[i].Name = names[i]
		}(i, probe)
	}
	wg.Wait()

	response := Response{Status: StatusHealthy, Version: h.version, Timestamp: start, Checks: results}
	for _, c := range results {
		if c.Status != StatusUnhealthy {
			continue
		}
		response.Status = StatusUnhealthy
		h.logger.Warn("Readiness probe failed", zap.String("check", c.Name), zap.String("message", c.Message))
	}
	response.DurationMS = time.Since(start).Milliseconds()

	h.mu.Lock()
	h.cache = &response
	h.mu.Unlock()

	return response
}

// PingChecker reports unhealthy when ping returns an error
type PingChecker struct {
	ping func(ctx context.Context) error
}

// NewPingChecker wraps a Ping method, e.g. of the database or the cache
func NewPingChecker(ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{ping: ping}
}

// Check implements Checker
func (p *PingChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Status: StatusHealthy, CheckedAt: start.UTC()}
	if err := p.ping(ctx); err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	check.DurationMS = time.Since(start).Milliseconds()
	return check
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
