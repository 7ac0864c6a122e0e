package core

import "context"

// Ports define interfaces for the external collaborators the orchestration
// engine consumes. The engine owns no persistence and no wire format; both
// belong to whatever implements these ports.

// ============================================
// IDENTITY BACKEND PORT
// ============================================

// IdentityBackend is the system of record for accounts, credentials, and the
// ambient session. Every blocking call takes a context; completion may occur
// on an arbitrary goroutine and callers must not assume reentry on the
// calling one.
type IdentityBackend interface {
	CreateAccount(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignInWithCredential(ctx context.Context, cred Credential) (*User, error)
	SignOut(ctx context.Context) error

	SendPasswordReset(ctx context.Context, email string) error
	Reauthenticate(ctx context.Context, email, password string) error
	UpdatePassword(ctx context.Context, newPassword string) error

	// FetchProviders returns the provider IDs registered for email in
	// registration order. An unknown email yields an empty list, not an
	// error. The call is read-only.
	FetchProviders(ctx context.Context, email string) ([]string, error)

	// SendEmailVerification is fire-and-forget; failures are discarded.
	SendEmailVerification(ctx context.Context)

	// CurrentUser returns the ambient session's user, or nil when no session
	// is active.
	CurrentUser() *User

	// CurrentProviderID returns the provider ID of record for the ambient
	// session, or "" when no session is active.
	CurrentProviderID() string

	IDToken(ctx context.Context, forceRefresh bool) (string, error)
}

// ============================================
// OAUTH ADAPTER PORT
// ============================================

// OAuthAdapter wraps one social provider's SDK: the consent flow that
// produces a credential, and local session teardown. Client-identifier
// configuration lives on the concrete type and is a single-writer surface,
// set once before any sign-in.
type OAuthAdapter interface {
	Provider() AccountProvider

	// SignIn completes the provider's consent flow and returns a credential
	// the backend can verify. An adapter that finishes consent without
	// usable token material returns ErrMissingCredential.
	SignIn(ctx context.Context) (Credential, error)

	// SignOut tears down the adapter's local session state. Used best-effort
	// during cleanup; errors are discarded by callers.
	SignOut(ctx context.Context) error
}

// ============================================
// OBSERVER PORT
// ============================================

// Observer receives the terminal AuthResult of every result-protocol
// operation together with the provider the caller attempted. At most one
// observer is attached at a time. The reference is non-owning: when it is
// gone, reports are dropped, which is not an error.
type Observer interface {
	AuthComplete(result AuthResult, provider AccountProvider)
}
