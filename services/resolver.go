package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mavrk/authflow/core"
)

// ResolutionKind classifies the outcome of resolving an attempted provider
// against the backend's provider registry.
type ResolutionKind int

const (
	// ResolutionMatch - the attempted provider is the provider of record;
	// the original login may proceed.
	ResolutionMatch ResolutionKind = iota
	// ResolutionNoAccount - no provider is registered for the email.
	ResolutionNoAccount
	// ResolutionWrongProvider - the account was created under a different
	// provider than the one attempted.
	ResolutionWrongProvider
)

// Resolution is the decision produced by ProviderResolver.
type Resolution struct {
	Kind ResolutionKind

	// Actual is the account's provider of record. Set for
	// ResolutionWrongProvider only.
	Actual core.AccountProvider
}

// ProviderResolver decides whether a login attempt targets the provider an
// account was originally created with. Resolution is strictly read-only: it
// never creates, deletes, or mutates accounts.
type ProviderResolver struct {
	backend core.IdentityBackend
}

func NewProviderResolver(backend core.IdentityBackend) *ProviderResolver {
	return &ProviderResolver{backend: backend}
}

// lookup queries the provider registry for email and captures the account's
// provider of record, or ErrNoAccountProvider when the email has none.
//
// Only the first registered provider is authoritative. Accounts linked to
// multiple providers are not disambiguated; this is a documented limitation,
// not a defect to fix silently.
func (r *ProviderResolver) lookup(ctx context.Context, email string) core.Outcome[core.AccountProvider] {
	return core.NewOutcome(func() (core.AccountProvider, error) {
		ids, err := r.backend.FetchProviders(ctx, email)
		if err != nil {
			return "", fmt.Errorf("fetch providers: %w", err)
		}
		if len(ids) == 0 {
			return "", core.ErrNoAccountProvider
		}
		actual, ok := core.ParseProvider(ids[0])
		if !ok {
			// An unrecognized provider ID cannot be offered as a recovery
			// path; treat the email as having no usable registration.
			return "", core.ErrNoAccountProvider
		}
		return actual, nil
	})
}

// Resolve compares the attempted provider against the provider of record for
// email. Backend errors from the registry query propagate; the no-provider
// case is a Resolution, not an error.
func (r *ProviderResolver) Resolve(ctx context.Context, attempted core.AccountProvider, email string) (Resolution, error) {
	actual, err := r.lookup(ctx, email).Resolve()
	switch {
	case errors.Is(err, core.ErrNoAccountProvider):
		return Resolution{Kind: ResolutionNoAccount}, nil
	case err != nil:
		return Resolution{}, err
	case actual != attempted:
		return Resolution{Kind: ResolutionWrongProvider, Actual: actual}, nil
	default:
		return Resolution{Kind: ResolutionMatch}, nil
	}
}
