package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mavrk/authflow/core"
)

// Requirement: Resolve classifies an (attempted provider, email) pair against
// the registry; only the first registered provider is authoritative.
func TestProviderResolver_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		attempted  core.AccountProvider
		email      string
		setup      func(*FakeBackend)
		wantKind   ResolutionKind
		wantActual core.AccountProvider
		wantErr    bool
	}{
		{
			name:      "matching provider proceeds",
			attempted: core.ProviderEmail,
			email:     "alice@example.com",
			setup: func(b *FakeBackend) {
				b.RegisterEmail("alice@example.com", "password")
			},
			wantKind: ResolutionMatch,
		},
		{
			name:      "different provider is a wrong-provider attempt",
			attempted: core.ProviderEmail,
			email:     "a@x.com",
			setup: func(b *FakeBackend) {
				b.RegisterEmail("a@x.com", "facebook.com")
			},
			wantKind:   ResolutionWrongProvider,
			wantActual: core.ProviderFacebook,
		},
		{
			name:      "unregistered email has no account",
			attempted: core.ProviderEmail,
			email:     "b@x.com",
			wantKind:  ResolutionNoAccount,
		},
		{
			name:      "first registered provider wins for linked accounts",
			attempted: core.ProviderEmail,
			email:     "multi@x.com",
			setup: func(b *FakeBackend) {
				b.RegisterEmail("multi@x.com", "google.com", "password")
			},
			wantKind:   ResolutionWrongProvider,
			wantActual: core.ProviderGoogle,
		},
		{
			name:      "unrecognized provider id behaves like no account",
			attempted: core.ProviderEmail,
			email:     "legacy@x.com",
			setup: func(b *FakeBackend) {
				b.RegisterEmail("legacy@x.com", "github.com")
			},
			wantKind: ResolutionNoAccount,
		},
		{
			name:      "registry error propagates",
			attempted: core.ProviderGoogle,
			email:     "err@x.com",
			setup: func(b *FakeBackend) {
				b.fetchErr = errors.New("registry unavailable")
			},
			wantErr: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			backend := NewFakeBackend()
			if test.setup != nil {
				test.setup(backend)
			}
			resolver := NewProviderResolver(backend)

			// Act
			res, err := resolver.Resolve(context.Background(), test.attempted, test.email)

			// Assert
			if (err != nil) != test.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, test.wantErr)
			}
			if test.wantErr {
				return
			}
			if res.Kind != test.wantKind {
				t.Fatalf("Resolve() kind = %v, want %v", res.Kind, test.wantKind)
			}
			if res.Kind == ResolutionWrongProvider && res.Actual != test.wantActual {
				t.Errorf("Resolve() actual = %q, want %q", res.Actual, test.wantActual)
			}
		})
	}
}

// Requirement: resolution never mutates the registry.
func TestProviderResolver_ReadOnly(t *testing.T) {
	backend := NewFakeBackend()
	backend.RegisterEmail("a@x.com", "facebook.com")
	resolver := NewProviderResolver(backend)

	for _, attempted := range []core.AccountProvider{core.ProviderEmail, core.ProviderGoogle, core.ProviderFacebook} {
		if _, err := resolver.Resolve(context.Background(), attempted, "a@x.com"); err != nil {
			t.Fatalf("Resolve(%q) unexpected error: %v", attempted, err)
		}
	}

	ids, _ := backend.FetchProviders(context.Background(), "a@x.com")
	if len(ids) != 1 || ids[0] != "facebook.com" {
		t.Errorf("registry changed by resolution: %v", ids)
	}
}
