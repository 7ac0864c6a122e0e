package crypto

import (
	"strings"
	"testing"
)

// Requirement: hashing is salted and verification accepts only the original
// password.
func TestArgon2_HashAndVerify(t *testing.T) {
	hasher := NewArgon2()

	hash, err := hasher.Hash("SecurePass123!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("Hash() = %q, want argon2id encoding", hash)
	}

	again, err := hasher.Hash("SecurePass123!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == again {
		t.Error("two hashes of the same password should differ (salt)")
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "correct password verifies", password: "SecurePass123!", want: true},
		{name: "wrong password fails", password: "WrongPass123!", want: false},
		{name: "empty password fails", password: "", want: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			ok, err := hasher.Verify(test.password, hash)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if ok != test.want {
				t.Errorf("Verify() = %v, want %v", ok, test.want)
			}
		})
	}
}

// Requirement: malformed hashes are rejected with an error, not a panic.
func TestArgon2_VerifyMalformed(t *testing.T) {
	hasher := NewArgon2()

	for _, hash := range []string{"", "plaintext", "$argon2id$v=19$m=65536", "$bcrypt$whatever$x$y$z"} {
		if ok, err := hasher.Verify("password", hash); err == nil || ok {
			t.Errorf("Verify(%q) = (%v, %v), want error", hash, ok, err)
		}
	}
}
