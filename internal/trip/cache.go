package trip

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CacheConfig holds configuration for the route result cache.
type CacheConfig struct {
	// TTL is how long a computed result stays servable (default: 2 minutes).
	TTL time.Duration

	// SweepInterval is how often expired entries are removed (default: 1 minute).
	SweepInterval time.Duration

	// Logger for cache operations.
	Logger zerolog.Logger
}

// Cache is a TTL-keyed map from a request fingerprint to a computed Result.
// Expired entries are evicted lazily on read and by a background sweep.
type Cache struct {
	ttl           time.Duration
	sweepInterval time.Duration
	logger        zerolog.Logger

	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	result    Result
	createdAt time.Time
}

// NewCache creates a route result cache.
func NewCache(cfg CacheConfig) *Cache {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 2 * time.Minute
	}
	sweepInterval := cfg.SweepInterval
	if sweepInterval == 0 {
		sweepInterval = time.Minute
	}

	return &Cache{
		ttl:           ttl,
		sweepInterval: sweepInterval,
		logger:        cfg.Logger,
		entries:       make(map[string]*cacheEntry),
	}
}

// Fingerprint builds the deterministic cache key for a query. SessionID is
// excluded so identical questions from different sessions share an entry.
func Fingerprint(q Query) string {
	return strings.Join([]string{
		q.Origin,
		q.Destination,
		string(q.Mode),
		string(q.PowerType),
		string(q.CongestionRange),
		strconv.FormatBool(q.HasCongestionQuota),
	}, "|")
}

// Get returns the cached result for key, evicting it if expired.
func (c *Cache) Get(key string) (Result, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Result{}, false
	}

	if time.Since(e.createdAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a Put may have replaced the entry.
		if cur, ok := c.entries[key]; ok && time.Since(cur.createdAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return Result{}, false
	}

	return e.result, true
}

// Put stores a result under key, overwriting any existing entry.
func (c *Cache) Put(key string, r Result) {
	c.mu.Lock()
	c.entries[key] = &cacheEntry{result: r, createdAt: time.Now()}
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of entries, including not-yet-swept expired ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats describes the cache contents.
type CacheStats struct {
	TotalEntries int `json:"total_entries"`
	FreshEntries int `json:"fresh_entries"`
}

// Stats returns a snapshot of the cache contents.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fresh := 0
	for _, e := range c.entries {
		if time.Since(e.createdAt) < c.ttl {
			fresh++
		}
	}
	return CacheStats{TotalEntries: len(c.entries), FreshEntries: fresh}
}

// Start runs the background sweep until ctx is canceled.
func (c *Cache) Start(ctx context.Context) {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	expired := 0
	for key, e := range c.entries {
		if time.Since(e.createdAt) >= c.ttl {
			delete(c.entries, key)
			expired++
		}
	}
	c.mu.Unlock()

	if expired > 0 {
		c.logger.Debug().
			Int("expired_entries", expired).
			Msg("swept expired route cache entries")
	}
}
