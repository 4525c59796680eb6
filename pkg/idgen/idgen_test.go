package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStorageKey(t *testing.T) {
	t.Parallel()

	gen := New()

	key, err := gen.GenerateStorageKey("jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "img-"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
}

func TestGenerateStorageKeyUnique(t *testing.T) {
	t.Parallel()

	gen := New()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key, err := gen.GenerateStorageKey("png")
		require.NoError(t, err)
		assert.False(t, seen[key], "duplicate storage key: %s", key)
		seen[key] = true
	}
}

func TestDefaultGenerator(t *testing.T) {
	t.Parallel()

	g1 := DefaultGenerator()
	g2 := DefaultGenerator()
	assert.Same(t, g1, g2)

	key, err := GenerateStorageKey("webp")
	require.NoError(t, err)
	assert.Contains(t, key, ".webp")
}
