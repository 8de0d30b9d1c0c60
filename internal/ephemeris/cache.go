package ephemeris

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/service"
)

// cacheEntry represents a cached chart.
type cacheEntry struct {
	expiry time.Time
	chart  *model.Chart
}

// Cached memoizes an oracle. Oracles are idempotent, so repeated scans of the
// same month and place reuse earlier charts until they expire.
type Cached struct {
	next    service.Ephemeris
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	hits    atomic.Int64
	misses  atomic.Int64
	mu      sync.RWMutex
	once    sync.Once
}

// NewCached wraps an oracle with a TTL cache.
func NewCached(next service.Ephemeris, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = time.Hour
	}

	c := &Cached{
		next:    next,
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go c.cleanup()

	return c
}

// Positions returns a cached chart or asks the wrapped oracle.
func (c *Cached) Positions(ctx context.Context, at time.Time, latitude, longitude float64) (*model.Chart, error) {
	key := cacheKey(at, latitude, longitude)
	if chart, ok := c.get(key); ok {
		c.hits.Add(1)
		return chart, nil
	}
	c.misses.Add(1)

	chart, err := c.next.Positions(ctx, at, latitude, longitude)
	if err != nil {
		return nil, err
	}
	c.set(key, chart)
	return chart, nil
}

// Stats reports cache hits and misses.
func (c *Cached) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the cleanup goroutine.
func (c *Cached) Close() {
	c.once.Do(func() {
		close(c.stopCh)
	})
}

func (c *Cached) get(key string) (*model.Chart, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		return nil, false
	}
	return entry.chart, true
}

func (c *Cached) set(key string, chart *model.Chart) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		chart:  chart,
		expiry: time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *Cached) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func cacheKey(at time.Time, latitude, longitude float64) string {
	return fmt.Sprintf("%d|%.4f|%.4f", at.Unix(), latitude, longitude)
}
