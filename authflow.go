// Package authflow orchestrates authentication across social identity
// providers and email/password accounts on top of a pluggable identity
// backend. It resolves which provider owns an email before credentials
// are spent, recovers provider-conflict failures into actionable
// redirects, and reports every outcome to an optional observer.
package authflow

import (
	"context"

	"github.com/mavrk/authflow/core"
	"github.com/mavrk/authflow/services"
)

// Re-exported core types so common integrations only import authflow.
type (
	User            = core.User
	AuthResult      = core.AuthResult
	ResultKind      = core.ResultKind
	AccountProvider = core.AccountProvider
	Credential      = core.Credential
	Observer        = core.Observer
	IdentityBackend = core.IdentityBackend
	OAuthAdapter    = core.OAuthAdapter
)

const (
	ProviderGoogle   = core.ProviderGoogle
	ProviderFacebook = core.ProviderFacebook
	ProviderEmail    = core.ProviderEmail
)

const (
	ResultSuccess          = core.ResultSuccess
	ResultFailure          = core.ResultFailure
	ResultNoAccount        = core.ResultNoAccount
	ResultWrongProvider    = core.ResultWrongProvider
	ResultPreflightSuccess = core.ResultPreflightSuccess
)

var (
	ErrBackendRequired    = core.ErrBackendRequired
	ErrNoSession          = core.ErrNoSession
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
)

// Authenticator is the surface transport adapters consume. *Auth
// implements it; tests substitute fakes.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) AuthResult
	LoginWithEmail(ctx context.Context, email, password string) AuthResult
	CheckEmailAvailability(ctx context.Context, email string) AuthResult
	LoginWithProvider(ctx context.Context, provider AccountProvider) AuthResult
	Logout(ctx context.Context) bool
	ResetPassword(ctx context.Context, email string) error
	Reauthenticate(ctx context.Context, email, password string) error
	ChangePassword(ctx context.Context, newPassword string) error
	Token(ctx context.Context) (string, error)
	CurrentUser() *User
	AccountType() (AccountProvider, bool)
}

// Config wires an Auth instance together.
type Config struct {
	// Backend is the identity store. Required.
	Backend IdentityBackend

	// Google and Facebook enable the corresponding social login flows.
	// A nil adapter disables that provider.
	Google   OAuthAdapter
	Facebook OAuthAdapter

	// Observer receives one report per completed operation. Optional.
	Observer Observer
}

// Auth is the configured entry point.
type Auth struct {
	*services.Orchestrator
}

var _ Authenticator = (*Auth)(nil)

// New validates cfg and builds an Auth.
func New(cfg Config) (*Auth, error) {
	if cfg.Backend == nil {
		return nil, ErrBackendRequired
	}

	var adapters []OAuthAdapter
	if cfg.Google != nil {
		adapters = append(adapters, cfg.Google)
	}
	if cfg.Facebook != nil {
		adapters = append(adapters, cfg.Facebook)
	}

	orch := services.NewOrchestrator(cfg.Backend, adapters...)
	if cfg.Observer != nil {
		orch.SetObserver(cfg.Observer)
	}
	return &Auth{Orchestrator: orch}, nil
}
