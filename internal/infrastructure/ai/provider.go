// Package ai selects the nutrition provider behind the lookup chain
package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/nutrition"
	"github.com/macrotrack/api/internal/infrastructure/ai/together"
	"github.com/macrotrack/api/internal/infrastructure/config"
	"github.com/macrotrack/api/internal/ports/outbound"
)

// NewProvider builds the provider named by ai.provider
func NewProvider(cfg config.AIConfig, logger *zap.Logger) (outbound.NutritionProvider, error) {
	switch cfg.Provider {
	case "together":
		if cfg.APIKey == "" {
			logger.Warn("AI API key not set; lookups outside the static table will fall back to defaults")
		}
		logger.Info("Nutrition provider initialized",
			zap.String("provider", cfg.Provider),
			zap.String("model", cfg.Model),
		)
		return NewBreakerProvider(together.NewClient(cfg, logger), BreakerConfig{
			FailureThreshold: cfg.BreakerFailures,
			Cooldown:         cfg.BreakerCooldown,
		}, logger), nil
	case "mock":
		logger.Info("Using mock nutrition provider")
		return MockProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// MockProvider answers without a network call. The same food name always
// yields the same facts.
type MockProvider struct{}

// Name implements outbound.NutritionProvider
func (MockProvider) Name() string { return "mock" }

// Lookup implements outbound.NutritionProvider
func (MockProvider) Lookup(_ context.Context, food string) (nutrition.Facts, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(nutrition.NormalizeName(food)))
	seed := float64(h.Sum32() % 1000)

	carb := round1(seed / 20)
	protein := round1(math.Mod(seed, 250) / 10)
	fat := round1(math.Mod(seed, 150) / 10)
	return nutrition.Facts{
		Food:    food,
		Calorie: round1(4*carb + 4*protein + 9*fat),
		Carb:    carb,
		Protein: protein,
		Fat:     fat,
		Fiber:   round1(math.Mod(seed, 80) / 10),
		Source:  nutrition.SourceLLM,
	}, nil
}

func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
