// Package pgx provides a Postgres-backed reference implementation of the
// core.IdentityBackend port. Accounts and the provider registry live in
// Postgres; the session is ambient, process-wide state, mirroring the
// behavior of hosted identity backends.
package pgx

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mavrk/authflow/core"
	"github.com/mavrk/authflow/pkg/cache"
	"github.com/mavrk/authflow/pkg/crypto"
)

// Identity is the verified identity extracted from a social credential.
type Identity struct {
	Subject string // provider-scoped stable user ID
	Email   string
}

// CredentialResolver verifies a social credential's token material and
// returns the identity it attests. Verification is provider-specific; the
// google and facebook adapters provide implementations.
type CredentialResolver func(ctx context.Context, cred core.Credential) (Identity, error)

// Config configures the backend.
type Config struct {
	// Secret signs issued ID tokens. Required.
	Secret string

	// ResolveCredential verifies social credentials. Required for
	// SignInWithCredential; email/password flows work without it.
	ResolveCredential CredentialResolver

	// Optional.
	TokenTTL       time.Duration          // ID token lifetime, default 1h
	PasswordHasher crypto.PasswordHandler // default argon2id
	ProviderCache  cache.Cache            // provider-registry lookups, nil disables
	Logger         *slog.Logger           // query diagnostics, nil disables

	// OnResetToken and OnVerificationToken receive raw tokens for delivery.
	// Delivery is the application's concern; nil drops the token.
	OnResetToken        func(email, token string)
	OnVerificationToken func(email, token string)
}

var ErrSecretRequired = errors.New("token signing secret is required")

// session is the ambient session state.
type session struct {
	user       *core.User
	providerID string
	token      string
	tokenExp   time.Time
}

// Backend implements core.IdentityBackend on a pgx connection pool.
type Backend struct {
	pool      *pgxpool.Pool
	cfg       Config
	passwords crypto.PasswordHandler
	providers cache.Cache
	log       *slog.Logger

	mu      sync.RWMutex
	current *session
}

var _ core.IdentityBackend = (*Backend)(nil)

func New(pool *pgxpool.Pool, cfg Config) (*Backend, error) {
	if cfg.Secret == "" {
		return nil, ErrSecretRequired
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}

	passwords := cfg.PasswordHasher
	if passwords == nil {
		passwords = crypto.NewArgon2()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Backend{
		pool:      pool,
		cfg:       cfg,
		passwords: passwords,
		providers: cfg.ProviderCache,
		log:       logger,
	}, nil
}

// setSession replaces the ambient session.
func (b *Backend) setSession(user *core.User, providerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = &session{user: user, providerID: providerID}
}

func (b *Backend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	// Signing out with no session is not an error.
	b.current = nil
	return nil
}

func (b *Backend) CurrentUser() *core.User {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return nil
	}
	u := *b.current.user
	return &u
}

func (b *Backend) CurrentProviderID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return ""
	}
	return b.current.providerID
}
