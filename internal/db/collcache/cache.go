package collcache

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCapacity bounds the number of cached collection handles.
const DefaultCapacity = 100

// Sentinel errors.
var (
	ErrNilFactory      = errors.New("collcache: nil factory")
	ErrEmptyCollection = errors.New("collcache: empty collection name")
)

// CreationError wraps a handle factory failure for one collection.
type CreationError struct {
	Collection string
	Err        error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("create handle for %q: %v", e.Collection, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// Factory builds the backend handle for one collection.
type Factory[H any] func(collection string) (H, error)

// Cache is a bounded get-or-create cache of per-collection handles. The
// factory runs at most once per collection; concurrent callers for the same
// collection block until the first creation settles.
type Cache[H any] struct {
	mu        sync.Mutex
	entries   *lru.Cache[string, H]
	factory   Factory[H]
	total     *prometheus.CounterVec
	evictions prometheus.Counter
}

// New creates a Cache. capacity <= 0 uses DefaultCapacity. onEvict (may be
// nil) runs for every handle leaving the cache, including Evict and Clear,
// with the cache lock held. total is a counter vec with label "result"
// ("hit"/"miss"); evictions counts capacity evictions. Both may be nil.
func New[H any](
	capacity int,
	factory Factory[H],
	onEvict func(collection string, handle H),
	total *prometheus.CounterVec,
	evictions prometheus.Counter,
) (*Cache[H], error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	var entries *lru.Cache[string, H]
	var err error
	if onEvict != nil {
		entries, err = lru.NewWithEvict(capacity, onEvict)
	} else {
		entries, err = lru.New[string, H](capacity)
	}
	if err != nil {
		return nil, err
	}

	return &Cache[H]{entries: entries, factory: factory, total: total, evictions: evictions}, nil
}

// ForCollection returns the handle for collection, creating it on first use.
// A factory error is returned as a *CreationError and nothing is cached, so
// the next call retries.
func (c *Cache[H]) ForCollection(collection string) (H, error) {
	var zero H
	if collection == "" {
		return zero, ErrEmptyCollection
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.entries.Get(collection); ok {
		c.inc("hit")
		return h, nil
	}
	c.inc("miss")

	h, err := c.factory(collection)
	if err != nil {
		return zero, &CreationError{Collection: collection, Err: err}
	}
	if c.entries.Add(collection, h) && c.evictions != nil {
		c.evictions.Inc()
	}
	return h, nil
}

// Evict removes one collection handle, reporting whether it was present.
func (c *Cache[H]) Evict(collection string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Remove(collection)
}

// Clear drops every cached handle.
func (c *Cache[H]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

// Size returns the number of cached handles.
func (c *Cache[H]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

func (c *Cache[H]) inc(result string) {
	if c.total != nil {
		c.total.WithLabelValues(result).Inc()
	}
}
