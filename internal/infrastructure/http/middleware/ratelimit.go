package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/macrotrack/api/internal/infrastructure/config"
	apperrors "github.com/macrotrack/api/pkg/errors"
)

// RejectionCounter is told about every request the limiter turns away
type RejectionCounter interface {
	RateLimited()
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	enabled  bool
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	counter  RejectionCounter
	logger   *zap.Logger
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter builds a limiter from the rate_limit config. counter may be nil.
func NewRateLimiter(cfg config.RateLimitConfig, counter RejectionCounter, logger *zap.Logger) *RateLimiter {
	idle := cfg.CleanupInterval
	if idle <= 0 {
		idle = 5 * time.Minute
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		enabled:  cfg.Enable,
		limit:    rate.Limit(float64(cfg.RequestsPerMin) / 60),
		burst:    cfg.BurstSize,
		idleTTL:  idle,
		counter:  counter,
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Allow reports whether the client at key may make a request now
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	now := l.now()
	v.lastSeen = now
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.enabled {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !l.Allow(ip) {
			if l.counter != nil {
				l.counter.RateLimited()
			}
			l.logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			WriteError(w, r, apperrors.NewTooManyRequestsError(), 0)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Cleanup drops clients that have been idle longer than the cleanup interval
// and returns how many were removed
func (l *RateLimiter) Cleanup() int {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Start runs Cleanup every cleanup interval until Stop is called
func (l *RateLimiter) Start() {
	go func() {
		ticker := time.NewTicker(l.idleTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := l.Cleanup(); n > 0 {
					l.logger.Debug("Evicted idle rate limit entries", zap.Int("count", n))
				}
			case <-l.stop:
				return
			}
		}
	}()
}

// Stop ends the cleanup loop
func (l *RateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *RateLimiter) retryAfterSeconds() int {
	if l.limit <= 0 {
		return 60
	}
	secs := int(1/float64(l.limit)) + 1
	if secs > 60 {
		return 60
	}
	return secs
}

// clientIP uses RemoteAddr, which chi's RealIP middleware has already
// rewritten from the forwarding headers
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
