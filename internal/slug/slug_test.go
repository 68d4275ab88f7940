package slug

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Ana María":           "ana-maria",
		"  Jean--Luc  O'Neil": "jean-luc-o-neil",
		"Zoë Łukasz":          "zoe-ukasz", // Ł has no decomposition and is dropped
		"!!!":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("jane-doe"))
	assert.True(t, Valid("abc"))
	assert.False(t, Valid("ab"))
	assert.False(t, Valid("12345"))
	assert.False(t, Valid("Jane-Doe"))
	assert.False(t, Valid("jane--doe"))
	assert.False(t, Valid(strings.Repeat("a", 51)))
}

func TestGeneratorTriesSuffixes(t *testing.T) {
	g := NewGenerator(NewMemoryReserver())
	ctx := context.Background()

	first, err := g.Generate(ctx, "Jane", "Doe")
	require.NoError(t, err)
	second, err := g.Generate(ctx, "Jane", "Doe")
	require.NoError(t, err)
	third, err := g.Generate(ctx, "Jane", "Doe")
	require.NoError(t, err)

	assert.Equal(t, "jane-doe", first)
	assert.Equal(t, "jane-doe-2", second)
	assert.Equal(t, "jane-doe-3", third)
}

func TestGeneratorAlwaysReturnsValidSlugs(t *testing.T) {
	g := NewGenerator(NewMemoryReserver())
	ctx := context.Background()
	names := [][2]string{{"", ""}, {"1", "2"}, {"A", ""}, {strings.Repeat("Long", 20), "Name"}}
	for _, n := range names {
		s, err := g.Generate(ctx, n[0], n[1])
		require.NoError(t, err)
		assert.True(t, Valid(s), s)
	}
}

func TestGeneratorHonoursPreloadedSlugs(t *testing.T) {
	r := NewMemoryReserver()
	r.Preload("jane-doe")
	s, err := NewGenerator(r).Generate(context.Background(), "Jane", "Doe")
	require.NoError(t, err)
	assert.Equal(t, "jane-doe-2", s)
}

type failingReserver struct{}

func (failingReserver) Reserve(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestGeneratorPropagatesReserverErrors(t *testing.T) {
	_, err := NewGenerator(failingReserver{}).Generate(context.Background(), "Jane", "Doe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
}
