package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupStatic(t *testing.T) {
	f, ok := LookupStatic(" Banana ")
	require.True(t, ok)
	assert.Equal(t, " Banana ", f.Food)
	assert.Equal(t, 89.0, f.Calorie)
	assert.Equal(t, SourceStatic, f.Source)
	require.NotNil(t, f.GlycemicIndex)
	assert.Equal(t, 51.0, *f.GlycemicIndex)

	// returned pointers must not alias the table
	*f.GlycemicIndex = 0
	again, _ := LookupStatic("banana")
	assert.Equal(t, 51.0, *again.GlycemicIndex)

	chicken, ok := LookupStatic("CHICKEN")
	require.True(t, ok)
	assert.Nil(t, chicken.GlycemicIndex)

	_, ok = LookupStatic("quinoa")
	assert.False(t, ok)
}

func TestFallbackFacts(t *testing.T) {
	assert.Equal(t, Facts{Food: "kale", Source: SourceLLM}, Unparsed("kale"))

	d := BasicDefault("kale")
	assert.Equal(t, 50.0, d.Calorie)
	assert.Equal(t, 10.0, d.Carb)
	assert.Equal(t, 1.0, d.Protein)
	assert.Equal(t, 1.0, d.Fat)
	assert.Equal(t, 1.0, d.Fiber)
	assert.Nil(t, d.GlycemicIndex)
	assert.Equal(t, SourceDefault, d.Source)
}
