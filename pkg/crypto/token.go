package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

const tokenLength = 32 // 256 bits

// TokenPair couples a raw token with the hash kept in storage. Only the
// hash is ever persisted.
type TokenPair struct {
	Token string // value handed to the user
	Hash  string // value in storage
}

// GenerateHashedToken produces a random token and its storage hash.
func GenerateHashedToken() (*TokenPair, error) {
	raw := make([]byte, tokenLength)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}

	token := base64.RawURLEncoding.EncodeToString(raw)
	return &TokenPair{Token: token, Hash: HashToken(token)}, nil
}

// HashToken maps a raw token onto its storage representation.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// VerifyToken compares a raw token against a stored hash in constant time.
func VerifyToken(token, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashToken(token)), []byte(storedHash)) == 1
}
