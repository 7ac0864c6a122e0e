package core

// AccountProvider identifies the identity mechanism a credential or an
// account belongs to. The raw values are the backend's stable provider IDs.
type AccountProvider string

const (
	ProviderGoogle   AccountProvider = "google.com"
	ProviderFacebook AccountProvider = "facebook.com"
	ProviderEmail    AccountProvider = "password"
)

// ParseProvider maps a raw backend provider ID onto an AccountProvider.
// Unknown IDs report ok=false rather than producing a bogus provider.
func ParseProvider(raw string) (AccountProvider, bool) {
	switch AccountProvider(raw) {
	case ProviderGoogle, ProviderFacebook, ProviderEmail:
		return AccountProvider(raw), true
	}
	return "", false
}

func (p AccountProvider) String() string { return string(p) }

// Social reports whether the provider authenticates through an OAuth
// consent flow rather than an email/password pair.
func (p AccountProvider) Social() bool {
	return p == ProviderGoogle || p == ProviderFacebook
}
