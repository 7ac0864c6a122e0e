package crypto

import (
	"strings"
	"testing"
)

// Requirement: generated IDs have the fixed length, use only the url-safe
// alphabet, and do not collide in practice.
func TestNewUID(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		id, err := NewUID()
		if err != nil {
			t.Fatalf("NewUID() error = %v", err)
		}
		if len(id) != idSize {
			t.Fatalf("NewUID() length = %d, want %d", len(id), idSize)
		}
		for _, c := range id {
			if !strings.ContainsRune(idAlphabet, c) {
				t.Fatalf("NewUID() produced %q outside the alphabet", c)
			}
		}
		if seen[id] {
			t.Fatalf("NewUID() collision after %d ids", i)
		}
		seen[id] = true
	}
}
