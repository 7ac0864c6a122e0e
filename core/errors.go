package core

import "errors"

// Resolution errors
var (
	// ErrNoAccountProvider is raised while resolving providers for an email
	// that has none registered. It is translated to a NoAccount result at the
	// orchestrator boundary and never surfaces to callers as a raw error.
	ErrNoAccountProvider = errors.New("no account provider registered for email")
)

// Adapter errors
var (
	ErrMissingCredential    = errors.New("oauth adapter supplied no usable credential")
	ErrAdapterNotConfigured = errors.New("no oauth adapter configured for provider")
)

// Backend errors
var (
	ErrNoSession          = errors.New("no active session")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// Config errors (composition root)
var (
	ErrBackendRequired = errors.New("identity backend is required")
)
