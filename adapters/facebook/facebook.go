// Package facebook adapts Facebook Login to the core.OAuthAdapter port.
//
// SignIn blocks until the application finishes the SDK-side login dialog
// and hands the access token to Deliver (or the failure to Fail). Resolving
// a delivered credential to an identity goes through the Graph API, since
// Facebook access tokens are opaque.
package facebook

import (
	"context"
	"errors"
	"sync"

	"github.com/mavrk/authflow/core"
)

// ErrCanceled reports a login dialog torn down by SignOut before the
// application delivered a credential.
var ErrCanceled = errors.New("facebook: sign-in canceled")

// Adapter implements core.OAuthAdapter for Facebook.
type Adapter struct {
	mu      sync.Mutex
	appID   string
	pending chan core.Outcome[core.Credential]
}

var _ core.OAuthAdapter = (*Adapter)(nil)

func NewAdapter() *Adapter {
	return &Adapter{}
}

// SetAppID configures the Facebook app identifier. Set once during setup,
// before any sign-in.
func (a *Adapter) SetAppID(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.appID = id
}

func (a *Adapter) AppID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.appID
}

func (a *Adapter) Provider() core.AccountProvider {
	return core.ProviderFacebook
}

// SignIn waits for the application to complete the login dialog and returns
// the delivered credential. At most one dialog is pending at a time;
// starting a new one cancels its predecessor.
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

// Deliver completes the pending login with Facebook's access token. An
// empty token fails the sign-in with core.ErrMissingCredential. Without a
// pending flow the call is a no-op.
func (a *Adapter) Deliver(accessToken string) {
	if accessToken == "" {
		a.complete(core.Err[core.Credential](core.ErrMissingCredential))
		return
	}
	a.complete(core.Ok(core.Credential{
		Provider:    core.ProviderFacebook,
		AccessToken: accessToken,
	}))
}

// Fail completes the pending login with the SDK's error.
func (a *Adapter) Fail(err error) {
	a.complete(core.Err[core.Credential](err))
}

// SignOut tears down the local session. A pending login is canceled.
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
