// Package cache is the read-side cache for public content: events,
// team, about, FAQs. One entry per key, a fixed freshness window, and
// wholesale replacement on refresh. The cache is in-process only: it
// is lost on restart and shares nothing across instances.
package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultFreshness is the window after which cached data is stale.
const DefaultFreshness = 5 * time.Minute

// FetchFunc loads fresh data for a key on a cache miss.
type FetchFunc func(ctx context.Context) (interface{}, error)

type entry struct {
	mu        sync.Mutex // serializes fetches for this key
	data      interface{}
	timestamp time.Time
	valid     bool
}

type Cache struct {
	freshness time.Duration

	// Now is the clock; tests swap it out.
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func New(freshness time.Duration) *Cache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Cache{
		freshness: freshness,
		Now:       time.Now,
		entries:   make(map[string]*entry),
	}
}

func (c *Cache) entryFor(key string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// Get returns the cached value and whether it is still fresh.
func (c *Cache) Get(key string) (interface{}, bool) {
	e := c.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data, e.valid && c.Now().Sub(e.timestamp) < c.freshness
}

// GetOrFetch returns the cached value when fresh, otherwise calls
// fetch and replaces the entry wholesale. Concurrent callers for the
// same key wait on the in-flight fetch rather than duplicating it; a
// fetch error leaves any previous (stale) entry in place.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (interface{}, error) {
	e := c.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.valid && c.Now().Sub(e.timestamp) < c.freshness {
		return e.data, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	e.data = data
	e.timestamp = c.Now()
	e.valid = true
	return data, nil
}

// Set replaces the entry for key with data stamped now.
func (c *Cache) Set(key string, data interface{}) {
	e := c.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = data
	e.timestamp = c.Now()
	e.valid = true
}

// Invalidate drops the entry for key; the next read refetches.
func (c *Cache) Invalidate(key string) {
	e := c.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = nil
	e.valid = false
}
