package embeddings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns a fixed vector per text and counts calls.
type stubEmbedder struct {
	calls [][]string
}

func (s *stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	s.calls = append(s.calls, texts)
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = []float32{float32(len(text)), 1}
	}
	return vectors, nil
}

func TestCacheBoundedEviction(t *testing.T) {
	cache := NewCache(2)
	cache.Put("a", []float32{1})
	cache.Put("b", []float32{2})
	cache.Put("c", []float32{3})

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("a") // oldest entry evicted
	assert.False(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}

func TestCacheWriteOnce(t *testing.T) {
	cache := NewCache(2)
	cache.Put("a", []float32{1})
	cache.Put("a", []float32{99})

	vec, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, []float32{1}, vec)
}

func TestKeyNormalizes(t *testing.T) {
	assert.Equal(t, Key("  Backup Plan "), Key("backup plan"))
	assert.NotEqual(t, Key("backup plan"), Key("restore plan"))
}

func TestCachedEmbedderFetchesOnlyMisses(t *testing.T) {
	stub := &stubEmbedder{}
	embedder := NewCachedEmbedder(stub, NewCache(10))
	ctx := context.Background()

	first, err := embedder.EmbedDocuments(ctx, []string{"aa", "bbb"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Len(t, stub.calls, 1)

	// Second call reuses both cached vectors and only fetches the new text.
	second, err := embedder.EmbedDocuments(ctx, []string{"aa", "cccc", "bbb"})
	require.NoError(t, err)
	require.Len(t, second, 3)
	require.Len(t, stub.calls, 2)
	assert.Equal(t, []string{"cccc"}, stub.calls[1])
	assert.Equal(t, first[0], second[0])
	assert.Equal(t, first[1], second[2])
}

func TestCachedEmbedderEmptyInput(t *testing.T) {
	embedder := NewCachedEmbedder(&stubEmbedder{}, nil)
	_, err := embedder.EmbedDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}
