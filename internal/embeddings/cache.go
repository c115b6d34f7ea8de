package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultCacheSize bounds the embedding cache. Recommendation texts are
// short and few; the bound exists to keep a long-lived process from
// growing without limit, not to tune hit rates.
const DefaultCacheSize = 1024

// Cache is a bounded, write-once embedding cache keyed by a hash of the
// normalized text. Entries are never updated or invalidated; when the
// bound is reached the oldest entry is evicted.
type Cache struct {
	mu      sync.RWMutex
	maxSize int
	entries map[string][]float32
	order   []string
}

// NewCache creates a cache holding at most maxSize vectors. Non-positive
// sizes fall back to DefaultCacheSize.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		maxSize: maxSize,
		entries: make(map[string][]float32, maxSize),
	}
}

// Key hashes normalized text into a cache key.
func Key(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached vector for a key, if present.
func (c *Cache) Get(key string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.entries[key]
	return vec, ok
}

// Put stores a vector under a key. Existing entries are left untouched.
func (c *Cache) Put(key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	if len(c.order) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = vec
	c.order = append(c.order, key)
}

// Len returns the number of cached vectors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CachedEmbedder wraps an Embedder with the bounded cache, only calling
// through for texts not yet seen.
type CachedEmbedder struct {
	inner   Embedder
	cache   *Cache
	metrics *Metrics
}

// NewCachedEmbedder wraps inner with cache. A nil cache gets the default
// bound.
func NewCachedEmbedder(inner Embedder, cache *Cache) *CachedEmbedder {
	if cache == nil {
		cache = NewCache(0)
	}
	return &CachedEmbedder{inner: inner, cache: cache, metrics: NewMetrics(zap.NewNop())}
}

// EmbedDocuments returns one vector per text, fetching only cache misses
// from the wrapped embedder.
func (e *CachedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	hits := 0

	for i, text := range texts {
		if vec, ok := e.cache.Get(Key(text)); ok {
			vectors[i] = vec
			hits++
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	e.metrics.RecordCacheHits(ctx, hits)

	if len(missing) == 0 {
		return vectors, nil
	}

	fetched, err := e.inner.EmbedDocuments(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missing) {
		return nil, ErrEmbeddingFailed
	}

	for i, vec := range fetched {
		idx := missingIdx[i]
		vectors[idx] = vec
		e.cache.Put(Key(texts[idx]), vec)
	}
	return vectors, nil
}
