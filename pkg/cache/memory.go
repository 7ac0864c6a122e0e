package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrNotFound = errors.New("entry not found in cache")

// Cache stores provider-registry lookups keyed by email. Provider resolution
// runs before every email login and availability check, so a small cache
// keeps the registry off the hot path.
type Cache interface {
	Get(email string) ([]string, error)
	Set(email string, providerIDs []string) error
	Delete(email string) error
	Clear() error
}

// Config controls cache behavior.
type Config struct {
	TTL     time.Duration
	MaxSize int
}

// Stats are simple counters for cache behavior, intended for diagnostics.
type Stats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

type cachedRecord struct {
	providerIDs []string
	cachedAt    time.Time
}

// InMemory implements Cache with a TTL-bounded map.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string]*cachedRecord
	ttl     time.Duration
	maxSize int

	// counters
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
}

var _ Cache = (*InMemory)(nil)

// NewInMemory creates a new in-memory provider cache.
func NewInMemory(c Config) *InMemory {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &InMemory{
		entries: make(map[string]*cachedRecord),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
	}
}

// Get retrieves the provider IDs cached for an email.
func (c *InMemory) Get(email string) ([]string, error) {
	c.mu.RLock()
	record, exists := c.entries[email]
	c.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrNotFound
	}

	if time.Since(record.cachedAt) > c.ttl {
		atomic.AddInt64(&c.misses, 1)
		_ = c.Delete(email)
		return nil, ErrNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	return record.providerIDs, nil
}

// Set stores the provider IDs for an email.
func (c *InMemory) Set(email string, providerIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if len(c.entries) >= c.maxSize {
		for k := range c.entries {
			delete(c.entries, k)
			atomic.AddInt64(&c.evictions, 1)
			break
		}
	}

	c.entries[email] = &cachedRecord{
		providerIDs: providerIDs,
		cachedAt:    time.Now(),
	}

	atomic.AddInt64(&c.sets, 1)
	return nil
}

// Delete removes an email's entry.
func (c *InMemory) Delete(email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.entries[email]; existed {
		delete(c.entries, email)
		atomic.AddInt64(&c.deletes, 1)
	}
	return nil
}

// Clear removes all entries.
func (c *InMemory) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cachedRecord)
	return nil
}

// Len returns the number of cached entries.
func (c *InMemory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *InMemory) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Deletes:   atomic.LoadInt64(&c.deletes),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}
