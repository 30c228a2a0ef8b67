// Package nutrition resolves per-100g facts for a food through the static
// table, the cache and the language model, in that order
package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/nutrition"
	"github.com/macrotrack/api/internal/ports/outbound"
	apperrors "github.com/macrotrack/api/pkg/errors"
)

const cacheKeyPrefix = "nutrition:"

// Service implements the lookup chain
type Service struct {
	provider outbound.NutritionProvider
	cache    outbound.CacheRepository
	observer outbound.LookupObserver
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new nutrition service. observer may be nil.
func NewService(
	provider outbound.NutritionProvider,
	cache outbound.CacheRepository,
	observer outbound.LookupObserver,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		observer: observer,
		cacheTTL: cacheTTL,
		logger:   logger.Named("nutrition-service"),
		now:      time.Now,
	}
}

// AnalyzeCommand names the food to look up
type AnalyzeCommand struct {
	Food string `json:"food" validate:"max=200"`
}

// Analyze returns facts for the food. It only fails on an empty name; an
// unreachable model yields the basic default.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (nutrition.Facts, error) {
	food := strings.TrimSpace(cmd.Food)
	if food == "" {
		return nutrition.Facts{}, apperrors.NewValidationError("Food name is required")
	}

	start := s.now()
	facts := s.resolve(ctx, food)
	if s.observer != nil {
		s.observer.ObserveLookup(facts.Source, s.now().Sub(start))
	}
	return facts, nil
}

func (s *Service) resolve(ctx context.Context, food string) nutrition.Facts {
	if facts, ok := nutrition.LookupStatic(food); ok {
		return facts
	}

	key := cacheKeyPrefix + nutrition.NormalizeName(food)
	if facts, ok := s.fromCache(ctx, key); ok {
		facts.Food = food
		facts.Source = nutrition.SourceCache
		return facts
	}

	facts, err := s.provider.Lookup(ctx, food)
	switch {
	case errors.Is(err, nutrition.ErrUnparsableReply):
		s.logger.Warn("Model reply was not valid JSON",
			zap.String("food", food),
			zap.String("provider", s.provider.Name()),
		)
		return nutrition.Unparsed(food)
	case err != nil:
		s.logger.Error("Nutrition lookup failed, using default",
			zap.String("food", food),
			zap.String("provider", s.provider.Name()),
			zap.Error(err),
		)
		return nutrition.BasicDefault(food)
	}

	facts.Food = food
	facts.Source = nutrition.SourceLLM
	s.store(ctx, key, facts)
	return facts
}

func (s *Service) fromCache(ctx context.Context, key string) (nutrition.Facts, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, outbound.ErrNotFound) {
			s.logger.Warn("Nutrition cache read failed", zap.Error(err))
		}
		return nutrition.Facts{}, false
	}

	var facts nutrition.Facts
	if err := json.Unmarshal(raw, &facts); err != nil {
		s.logger.Warn("Dropping corrupt nutrition cache entry", zap.String("key", key))
		_ = s.cache.Delete(ctx, key)
		return nutrition.Facts{}, false
	}
	return facts, true
}

func (s *Service) store(ctx context.Context, key string, facts nutrition.Facts) {
	raw, err := json.Marshal(facts)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("Nutrition cache write failed", zap.Error(err))
	}
}
