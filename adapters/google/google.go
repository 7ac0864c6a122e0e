// Package google adapts Google sign-in to the core.OAuthAdapter port.
//
// The consent flow is split in two: SignIn blocks until the application
// finishes the browser-side OAuth dance and hands the resulting tokens to
// Deliver (or the failure to Fail). The package also verifies Google ID
// tokens against the published JWKS so a backend can trust the credential.
package google

import (
	"context"
	"errors"
	"sync"

	"github.com/mavrk/authflow/core"
)

// ErrCanceled reports a consent flow torn down by SignOut before the
// application delivered a credential.
var ErrCanceled = errors.New("google: sign-in canceled")

// Adapter implements core.OAuthAdapter for Google.
type Adapter struct {
	mu       sync.Mutex
	clientID string
	pending  chan core.Outcome[core.Credential]
}

var _ core.OAuthAdapter = (*Adapter)(nil)

func NewAdapter() *Adapter {
	return &Adapter{}
}

// SetClientID configures the OAuth client identifier. Set once during
// setup, before any sign-in.
func (a *Adapter) SetClientID(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clientID = id
}

func (a *Adapter) ClientID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clientID
}

func (a *Adapter) Provider() core.AccountProvider {
	return core.ProviderGoogle
}

// SignIn waits for the application to complete Google's consent flow and
// returns the delivered credential. At most one consent flow is pending at
// a time; starting a new one cancels its predecessor.
func (a *Adapter) SignIn(ctx context.Context) (core.Credential, error) {
	ch := make(chan core.Outcome[core.Credential], 1)

	a.mu.Lock()
	if a.pending != nil {
		a.pending <- core.Err[core.Credential](ErrCanceled)
	}
	a.pending = ch
	a.mu.Unlock()

	select {
	case <-ctx.Done():
		a.clearPending(ch)
		return core.Credential{}, ctx.Err()
	case out := <-ch:
		a.clearPending(ch)
		return out.Resolve()
	}
}

// Deliver completes the pending consent flow with Google's token material.
// An empty idToken cannot be verified and fails the sign-in with
// core.ErrMissingCredential. Without a pending flow the call is a no-op.
func (a *Adapter) Deliver(idToken, accessToken string) {
	if idToken == "" {
		a.complete(core.Err[core.Credential](core.ErrMissingCredential))
		return
	}
	a.complete(core.Ok(core.Credential{
		Provider:    core.ProviderGoogle,
		IDToken:     idToken,
		AccessToken: accessToken,
	}))
}

// Fail completes the pending consent flow with the SDK's error.
func (a *Adapter) Fail(err error) {
	a.complete(core.Err[core.Credential](err))
}

// SignOut tears down the local session. A pending consent flow is canceled.
func (a *Adapter) SignOut(ctx context.Context) error {
	a.complete(core.Err[core.Credential](ErrCanceled))
	return nil
}

func (a *Adapter) complete(out core.Outcome[core.Credential]) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return
	}
	a.pending <- out
	a.pending = nil
}

func (a *Adapter) clearPending(ch chan core.Outcome[core.Credential]) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == ch {
		a.pending = nil
	}
}
