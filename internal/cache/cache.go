// Package cache provides an in-memory key/value store with per-entry expiry.
//
// A Cache is safe for concurrent use. Expired entries are not removed eagerly;
// they are evicted by the next Get or Has that touches them, so Stats may
// still count entries whose TTL has elapsed.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is used by Set when no explicit TTL is given.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	value     T
	createdAt time.Time
	ttl       time.Duration
}

func (e entry[T]) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Cache stores values of type T under string keys.
type Cache[T any] struct {
	mu         sync.Mutex
	entries    map[string]entry[T]
	defaultTTL time.Duration
	now        func() time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	ttl time.Duration
	now func() time.Time
}

// WithTTL overrides the default TTL applied by Set.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates an empty cache.
func New[T any](opts ...Option) *Cache[T] {
	o := options{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{
		entries:    make(map[string]entry[T]),
		defaultTTL: o.ttl,
		now:        o.now,
	}
}

// Set stores value under key with the default TTL, replacing any previous entry.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key with the given TTL, replacing any previous entry.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{
		value:     value,
		createdAt: c.now(),
		ttl:       ttl,
	}
}

// Get returns the value stored under key. An expired entry is evicted and
// reported as absent.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Has reports whether a live entry exists for key, with the same eviction
// behaviour as Get.
func (c *Cache[T]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes the entry for key and reports whether one was present.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

// Clear removes every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[T])
}

// Stats is a snapshot of the stored keys.
type Stats struct {
	Count int
	Keys  []string
}

// Stats returns the number of stored entries and their keys in sorted order.
// It does not check expiry.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Stats{Count: len(keys), Keys: keys}
}

// GenerateKey builds "owner/repo", with ":suffix" appended when a non-empty
// suffix is given.
func GenerateKey(owner, repo string, suffix ...string) string {
	key := owner + "/" + repo
	if s := strings.Join(suffix, ":"); s != "" {
		key += ":" + s
	}
	return key
}
