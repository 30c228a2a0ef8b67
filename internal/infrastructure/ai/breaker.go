package ai

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/nutrition"
	"github.com/macrotrack/api/internal/ports/outbound"
)

// ErrCircuitOpen is returned without calling upstream while the breaker is open
var ErrCircuitOpen = errors.New("nutrition provider circuit is open")

// CircuitBreakerState represents the state of a circuit breaker
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds configuration for the circuit breaker
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit
	FailureThreshold int
	// Cooldown is how long the circuit stays open before one trial request
	Cooldown time.Duration
}

// BreakerProvider stops calling a failing provider for a while. Transport
// failures count against it; an unparsable reply does not, since upstream did
// answer, and neither does a lookup whose caller context was cancelled.
type BreakerProvider struct {
	next   outbound.NutritionProvider
	cfg    BreakerConfig
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	state       CircuitBreakerState
	failures    int
	nextAttempt time.Time
	trialActive bool
}

// NewBreakerProvider wraps next with a circuit breaker
func NewBreakerProvider(next outbound.NutritionProvider, cfg BreakerConfig, logger *zap.Logger) *BreakerProvider {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &BreakerProvider{
		next:   next,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		state:  StateClosed,
	}
}

// Name implements outbound.NutritionProvider
func (b *BreakerProvider) Name() string { return b.next.Name() }

// State returns the current breaker state
func (b *BreakerProvider) State() CircuitBreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Lookup implements outbound.NutritionProvider
func (b *BreakerProvider) Lookup(ctx context.Context, food string) (nutrition.Facts, error) {
	if !b.allowRequest() {
		return nutrition.Facts{}, ErrCircuitOpen
	}

	facts, err := b.next.Lookup(ctx, food)
	if err != nil && ctx.Err() != nil {
		// the caller gave up; says nothing about upstream health
		b.releaseTrial()
		return facts, err
	}
	if err != nil && !errors.Is(err, nutrition.ErrUnparsableReply) {
		b.onFailure()
		return facts, err
	}
	b.onSuccess()
	return facts, err
}

func (b *BreakerProvider) allowRequest() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Before(b.nextAttempt) {
			return false
		}
		b.setState(StateHalfOpen)
		b.trialActive = true
		return true
	case StateHalfOpen:
		// one trial request at a time
		if b.trialActive {
			return false
		}
		b.trialActive = true
		return true
	default:
		return false
	}
}

func (b *BreakerProvider) releaseTrial() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trialActive = false
}

func (b *BreakerProvider) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.trialActive = false
	b.setState(StateClosed)
}

func (b *BreakerProvider) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.trialActive = false

	switch b.state {
	case StateClosed:
		if b.failures >= b.cfg.FailureThreshold {
			b.setState(StateOpen)
		}
	case StateHalfOpen:
		b.setState(StateOpen)
	}
}

func (b *BreakerProvider) setState(next CircuitBreakerState) {
	if b.state == next {
		return
	}
	prev := b.state
	b.state = next
	if next == StateOpen {
		b.nextAttempt = b.now().Add(b.cfg.Cooldown)
	}
	b.logger.Warn("Nutrition provider circuit changed state",
		zap.String("provider", b.next.Name()),
		zap.String("from", prev.String()),
		zap.String("to", next.String()),
	)
}
