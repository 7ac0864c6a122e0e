package crypto

import "crypto/rand"

const (
	// 64-character url-safe alphabet: every random byte maps onto exactly
	// one character with a 6-bit mask, no rejection loop needed.
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

	// 22 * 6 = 132 bits of entropy, slightly more than a uuid.
	idSize = 22
)

// NewUID generates a random url-safe identifier.
func NewUID() (string, error) {
	b := make([]byte, idSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i, c := range b {
		b[i] = idAlphabet[c&63]
	}
	return string(b), nil
}
