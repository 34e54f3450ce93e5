package retrieval

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Evictions     int64 `json:"evictions"`
	TotalRequests int64 `json:"total_requests"`
}

func (s CacheStats) HitRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalRequests)
}

type cacheEntry struct {
	key        string
	descriptor string // canonical request JSON, scanned by InvalidatePattern
	results    []SearchResult
	storedAt   time.Time
	ttl        time.Duration
}

func (e *cacheEntry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

// CacheStore caches ranked retrieval results keyed by the full request
// (query, limit, filters). Entries expire lazily on access; once the store
// is full the least recently used entry is evicted. One store is built at
// bootstrap and shared by handle.
type CacheStore struct {
	mu         sync.Mutex
	capacity   int
	defaultTTL time.Duration
	ll         *list.List // front = most recently used
	items      map[string]*list.Element

	hits          int64
	misses        int64
	evictions     int64
	totalRequests int64
}

func NewCacheStore(capacity int, defaultTTL time.Duration) *CacheStore {
	if capacity <= 0 {
		capacity = 100
	}
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &CacheStore{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
	}
}

type cacheRequest struct {
	Query   string                 `json:"query"`
	Limit   int                    `json:"limit"`
	Filters map[string]interface{} `json:"filters,omitempty"`
}

// cacheKey derives the entry key from the normalized request. json.Marshal
// sorts map keys, so equal requests always serialize identically.
func cacheKey(query string, limit int, filters map[string]interface{}) (string, string) {
	req := cacheRequest{
		Query:   strings.ToLower(strings.TrimSpace(query)),
		Limit:   limit,
		Filters: filters,
	}
	descriptor, _ := json.Marshal(req)
	sum := sha256.Sum256(descriptor)
	return hex.EncodeToString(sum[:]), string(descriptor)
}

// Get returns the cached ranking for the request, if present and fresh.
// Expired entries are purged on access and reported as misses.
func (c *CacheStore) Get(query string, limit int, filters map[string]interface{}) ([]SearchResult, bool) {
	key, _ := cacheKey(query, limit, filters)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRequests++

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if entry.expired(time.Now()) {
		c.removeLocked(elem)
		c.misses++
		return nil, false
	}

	c.ll.MoveToFront(elem)
	c.hits++

	results := make([]SearchResult, len(entry.results))
	copy(results, entry.results)
	return results, true
}

// Set stores a ranking under the request key with the default TTL.
func (c *CacheStore) Set(query string, limit int, filters map[string]interface{}, results []SearchResult) {
	c.SetWithTTL(query, limit, filters, results, c.defaultTTL)
}

// SetWithTTL stores a ranking with an explicit per-entry TTL.
func (c *CacheStore) SetWithTTL(query string, limit int, filters map[string]interface{}, results []SearchResult, ttl time.Duration) {
	key, descriptor := cacheKey(query, limit, filters)

	stored := make([]SearchResult, len(results))
	copy(stored, results)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.results = stored
		entry.storedAt = time.Now()
		entry.ttl = ttl
		c.ll.MoveToFront(elem)
		return
	}

	if c.ll.Len() >= c.capacity {
		if oldest := c.ll.Back(); oldest != nil {
			c.removeLocked(oldest)
			c.evictions++
		}
	}

	elem := c.ll.PushFront(&cacheEntry{
		key:        key,
		descriptor: descriptor,
		results:    stored,
		storedAt:   time.Now(),
		ttl:        ttl,
	})
	c.items[key] = elem
}

// InvalidatePattern removes every entry whose request descriptor contains
// the pattern as a substring. Returns the number of removed entries.
func (c *CacheStore) InvalidatePattern(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for elem := c.ll.Front(); elem != nil; {
		next := elem.Next()
		entry := elem.Value.(*cacheEntry)
		if strings.Contains(entry.descriptor, pattern) {
			c.removeLocked(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// Clear drops every entry. Counters are preserved.
func (c *CacheStore) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element)
}

func (c *CacheStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *CacheStore) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:          c.hits,
		Misses:        c.misses,
		Evictions:     c.evictions,
		TotalRequests: c.totalRequests,
	}
}

func (c *CacheStore) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	c.ll.Remove(elem)
	delete(c.items, entry.key)
}
