package core

import "testing"

// Requirement: provider raw IDs round-trip through ParseProvider; unknown IDs
// yield absence, never a crash.
func TestParseProvider(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
		want   AccountProvider
	}{
		{name: "google round-trips", raw: "google.com", wantOK: true, want: ProviderGoogle},
		{name: "facebook round-trips", raw: "facebook.com", wantOK: true, want: ProviderFacebook},
		{name: "password round-trips", raw: "password", wantOK: true, want: ProviderEmail},
		{name: "unknown id yields absence", raw: "github.com", wantOK: false},
		{name: "empty id yields absence", raw: "", wantOK: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got, ok := ParseProvider(test.raw)
			if ok != test.wantOK {
				t.Fatalf("ParseProvider(%q) ok = %v, want %v", test.raw, ok, test.wantOK)
			}
			if ok && got != test.want {
				t.Errorf("ParseProvider(%q) = %q, want %q", test.raw, got, test.want)
			}
			if ok && got.String() != test.raw {
				t.Errorf("round-trip lost raw value: %q -> %q", test.raw, got.String())
			}
		})
	}
}

// Requirement: only the two OAuth vendors count as social providers.
func TestAccountProvider_Social(t *testing.T) {
	if !ProviderGoogle.Social() || !ProviderFacebook.Social() {
		t.Error("google and facebook should be social providers")
	}
	if ProviderEmail.Social() {
		t.Error("email should not be a social provider")
	}
}
