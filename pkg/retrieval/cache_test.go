package retrieval

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheResults(ids ...string) []SearchResult {
	results := make([]SearchResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, SearchResult{DocumentID: id, ChunkText: "chunk " + id, Score: 0.9})
	}
	return results
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCacheStore(10, time.Minute)

	filters := map[string]interface{}{"document_type": "access_review"}
	cache.Set("What failed the access review?", 5, filters, cacheResults("doc-1", "doc-2"))

	got, ok := cache.Get("What failed the access review?", 5, filters)
	require.True(t, ok, "expected cache hit")
	require.Len(t, got, 2)
	assert.Equal(t, "doc-1", got[0].DocumentID)

	// Same query text with different case and padding hits the same entry.
	_, ok = cache.Get("  what FAILED the access review?  ", 5, filters)
	assert.True(t, ok, "expected normalized query to hit")

	// A different limit is a different request.
	_, ok = cache.Get("What failed the access review?", 3, filters)
	assert.False(t, ok, "expected miss for different limit")

	// So is a different filter set over the same query.
	_, ok = cache.Get("What failed the access review?", 5, map[string]interface{}{"document_type": "soc2_report"})
	assert.False(t, ok, "expected miss for different filters")
}

func TestCacheTTLExpiry(t *testing.T) {
	cache := NewCacheStore(10, time.Minute)
	cache.SetWithTTL("q", 5, nil, cacheResults("doc-1"), time.Millisecond)

	time.Sleep(5 * time.Millisecond)

	_, ok := cache.Get("q", 5, nil)
	assert.False(t, ok, "expected expired entry to miss")
	assert.Equal(t, 0, cache.Len(), "expected expired entry purged")
	assert.EqualValues(t, 1, cache.Stats().Misses, "expected expiry counted as miss")
}

func TestCacheLRUEviction(t *testing.T) {
	cache := NewCacheStore(3, time.Minute)

	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("query %d", i), 5, nil, cacheResults("doc"))
	}

	// Touch query 0 so query 1 becomes least recently used.
	_, ok := cache.Get("query 0", 5, nil)
	require.True(t, ok, "expected hit on query 0")

	cache.Set("query 3", 5, nil, cacheResults("doc"))

	_, ok = cache.Get("query 1", 5, nil)
	assert.False(t, ok, "expected LRU entry evicted")
	_, ok = cache.Get("query 0", 5, nil)
	assert.True(t, ok, "expected recently used entry kept")

	stats := cache.Stats()
	assert.EqualValues(t, 1, stats.Evictions)
	assert.Equal(t, 3, cache.Len(), "expected size capped at capacity")
}

func TestCacheInvalidatePattern(t *testing.T) {
	cache := NewCacheStore(10, time.Minute)
	cache.Set("sox 404 testing", 5, nil, cacheResults("doc-1"))
	cache.Set("risk assessment scope", 5, nil, cacheResults("doc-2"))
	cache.Set("sox material weakness", 5, nil, cacheResults("doc-3"))

	removed := cache.InvalidatePattern("sox")
	require.Equal(t, 2, removed)

	_, ok := cache.Get("risk assessment scope", 5, nil)
	assert.True(t, ok, "expected unrelated entry kept")
}

func TestCacheStats(t *testing.T) {
	cache := NewCacheStore(10, time.Minute)
	cache.Set("q", 5, nil, cacheResults("doc-1"))

	cache.Get("q", 5, nil)     // hit
	cache.Get("other", 5, nil) // miss
	cache.Get("q", 5, nil)     // hit

	stats := cache.Stats()
	assert.EqualValues(t, 2, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.EqualValues(t, 3, stats.TotalRequests)
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 1e-9)
}
