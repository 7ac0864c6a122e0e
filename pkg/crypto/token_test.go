package crypto

import "testing"

// Requirement: a generated pair holds the raw token and its storage hash;
// verification is by hash comparison only.
func TestGenerateHashedToken(t *testing.T) {
	pair, err := GenerateHashedToken()
	if err != nil {
		t.Fatalf("GenerateHashedToken() error = %v", err)
	}
	if pair.Token == "" || pair.Hash == "" {
		t.Fatal("GenerateHashedToken() returned empty pair")
	}
	if pair.Hash != HashToken(pair.Token) {
		t.Error("pair hash does not match HashToken of the raw token")
	}

	if !VerifyToken(pair.Token, pair.Hash) {
		t.Error("VerifyToken() rejected the matching token")
	}
	if VerifyToken("some-other-token", pair.Hash) {
		t.Error("VerifyToken() accepted a non-matching token")
	}
}

// Requirement: hashing is deterministic and never exposes the raw token.
func TestHashToken(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Error("HashToken() is not deterministic")
	}
	if HashToken("abc") == "abc" {
		t.Error("HashToken() must not be the identity")
	}
}
