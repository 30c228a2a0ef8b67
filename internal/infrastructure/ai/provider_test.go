package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/infrastructure/ai/together"
	"github.com/macrotrack/api/internal/infrastructure/config"
)

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.AIConfig{Provider: "together"}, zap.NewNop())
	require.NoError(t, err)
	require.IsType(t, &BreakerProvider{}, p)
	assert.IsType(t, &together.Client{}, p.(*BreakerProvider).next)
	assert.Equal(t, "together", p.Name())

	p, err = NewProvider(config.AIConfig{Provider: "mock"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())

	_, err = NewProvider(config.AIConfig{Provider: "ollama"}, zap.NewNop())
	assert.Error(t, err)
}

func TestMockProviderIsDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := MockProvider{}.Lookup(ctx, "Lentil Soup")
	require.NoError(t, err)
	b, err := MockProvider{}.Lookup(ctx, "  lentil soup ")
	require.NoError(t, err)

	assert.Equal(t, a.Calorie, b.Calorie)
	assert.Equal(t, a.Protein, b.Protein)
	assert.GreaterOrEqual(t, a.Calorie, 0.0)
	assert.Nil(t, a.GlycemicIndex)
}
