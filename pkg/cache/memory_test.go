package cache

import (
	"errors"
	"testing"
	"time"
)

// Requirement: entries round-trip until the TTL expires, then read as misses.
func TestInMemory_GetSet(t *testing.T) {
	c := NewInMemory(Config{TTL: 50 * time.Millisecond, MaxSize: 10})

	if _, err := c.Get("a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty cache = %v, want ErrNotFound", err)
	}

	if err := c.Set("a@x.com", []string{"google.com"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	ids, err := c.Get("a@x.com")
	if err != nil || len(ids) != 1 || ids[0] != "google.com" {
		t.Fatalf("Get() = (%v, %v), want cached providers", ids, err)
	}

	time.Sleep(60 * time.Millisecond)
	if _, err := c.Get("a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after TTL = %v, want ErrNotFound", err)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("stats = %+v, want 1 hit and 2 misses", stats)
	}
}

// Requirement: the cache never grows past MaxSize; eviction makes room.
func TestInMemory_Eviction(t *testing.T) {
	c := NewInMemory(Config{TTL: time.Minute, MaxSize: 2})

	_ = c.Set("a@x.com", []string{"password"})
	_ = c.Set("b@x.com", []string{"password"})
	_ = c.Set("c@x.com", []string{"password"})

	if c.Len() > 2 {
		t.Errorf("Len() = %d, want at most 2", c.Len())
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("evictions = %d, want 1", c.Stats().Evictions)
	}
}

// Requirement: deleting and clearing invalidate entries.
func TestInMemory_DeleteClear(t *testing.T) {
	c := NewInMemory(Config{})

	_ = c.Set("a@x.com", []string{"password"})
	_ = c.Delete("a@x.com")
	if _, err := c.Get("a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete = %v, want ErrNotFound", err)
	}

	_ = c.Set("b@x.com", []string{"password"})
	_ = c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}
