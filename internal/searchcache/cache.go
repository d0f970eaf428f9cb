// Package searchcache keeps recent search responses in memory, keyed by the
// normalized search parameters, with a TTL chosen by search strategy.
package searchcache

import (
	"slices"
	"sync"
	"time"

	"library-catalog-service/internal/domain"
)

// DefaultMaxEntries is the capacity used when none is configured.
const DefaultMaxEntries = 20

// TTLConfig holds the time-to-live per search strategy.
type TTLConfig struct {
	Global    time.Duration
	Paginated time.Duration
	Filtered  time.Duration
	Default   time.Duration
}

// DefaultTTLs returns the standard TTL table.
func DefaultTTLs() TTLConfig {
	return TTLConfig{
		Global:    20 * time.Minute,
		Paginated: 10 * time.Minute,
		Filtered:  3 * time.Minute,
		Default:   2 * time.Minute,
	}
}

// For returns the TTL for strategy.
func (c TTLConfig) For(strategy domain.Strategy) time.Duration {
	switch strategy {
	case domain.StrategyGlobal:
		return c.Global
	case domain.StrategyPaginated:
		return c.Paginated
	case domain.StrategyFiltered:
		return c.Filtered
	default:
		return c.Default
	}
}

// Entry is a cached search response.
type Entry struct {
	Key       string
	Data      *domain.SearchResponse
	Timestamp time.Time
	TTL       time.Duration
}

// ExpiredAt reports whether the entry is stale at now. An entry is only valid
// strictly before its TTL has elapsed.
func (e *Entry) ExpiredAt(now time.Time) bool {
	return now.Sub(e.Timestamp) >= e.TTL
}

// Cache is a bounded TTL cache with insertion-order eviction.
// Get does not refresh an entry's position. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	order   []string // insertion order, oldest first

	maxEntries int
	ttls       TTLConfig
	now        func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxEntries sets the capacity.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithTTLs overrides the TTL table. Zero durations keep their default.
func WithTTLs(t TTLConfig) Option {
	return func(c *Cache) {
		if t.Global > 0 {
			c.ttls.Global = t.Global
		}
		if t.Paginated > 0 {
			c.ttls.Paginated = t.Paginated
		}
		if t.Filtered > 0 {
			c.ttls.Filtered = t.Filtered
		}
		if t.Default > 0 {
			c.ttls.Default = t.Default
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]*Entry),
		maxEntries: DefaultMaxEntries,
		ttls:       DefaultTTLs(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for key if present and fresh.
// A stale entry is removed and reported as a miss.
func (c *Cache) Get(key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.ExpiredAt(c.now()) {
		c.remove(key)
		return nil, false
	}
	return e, true
}

// Set stores data under key with the TTL of strategy.
// Overwriting an existing key moves it to the newest position.
func (c *Cache) Set(key string, data *domain.SearchResponse, strategy domain.Strategy) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}

	if len(c.entries) >= c.maxEntries {
		c.purgeExpired(now)
	}
	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		c.remove(c.order[0])
	}

	c.entries[key] = &Entry{
		Key:       key,
		Data:      data,
		Timestamp: now,
		TTL:       c.ttls.For(strategy),
	}
	c.order = append(c.order, key)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry)
	c.order = nil
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Keys returns the stored keys, oldest first.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.order)
}

func (c *Cache) purgeExpired(now time.Time) {
	for _, key := range slices.Clone(c.order) {
		if c.entries[key].ExpiredAt(now) {
			c.remove(key)
		}
	}
}

func (c *Cache) remove(key string) {
	delete(c.entries, key)
	if i := slices.Index(c.order, key); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
}
