package services

import (
	"context"

	"github.com/mavrk/authflow/core"
)

// Orchestrator coordinates signup, login, social login, logout, password
// maintenance, and token retrieval against an IdentityBackend, and drives
// ProviderResolver when a sign-in fails with an identity conflict.
//
// Each public operation is a short-lived, independent flow; the only state
// held across operations is the backend's ambient session and the registered
// observer. Concurrent operations are not serialized or de-duplicated and may
// interleave their observer reports. The observer and adapter configuration
// form a single-writer surface: set them during setup, not concurrently with
// in-flight operations.
type Orchestrator struct {
	backend  core.IdentityBackend
	resolver *ProviderResolver
	adapters map[core.AccountProvider]core.OAuthAdapter
	observer core.Observer
}

func NewOrchestrator(backend core.IdentityBackend, adapters ...core.OAuthAdapter) *Orchestrator {
	o := &Orchestrator{
		backend:  backend,
		resolver: NewProviderResolver(backend),
		adapters: make(map[core.AccountProvider]core.OAuthAdapter, len(adapters)),
	}
	for _, a := range adapters {
		o.adapters[a.Provider()] = a
	}
	return o
}

// SetObserver attaches the recipient of terminal authentication outcomes.
// Attaching a new observer does not cancel in-flight operations; their
// eventual report goes to whichever observer is attached at completion time.
func (o *Orchestrator) SetObserver(obs core.Observer) {
	o.observer = obs
}

// report delivers the terminal result for a result-protocol operation.
// A nil observer drops the report, which is not an error.
func (o *Orchestrator) report(res core.AuthResult, provider core.AccountProvider) core.AuthResult {
	if obs := o.observer; obs != nil {
		obs.AuthComplete(res, provider)
	}
	return res
}

// SignUp registers a new email/password account. On success a verification
// email is triggered exactly once and the new session's user is reported.
func (o *Orchestrator) SignUp(ctx context.Context, email, password string) core.AuthResult {
	if _, err := o.backend.CreateAccount(ctx, email, password); err != nil {
		return o.report(core.Failure(err), core.ProviderEmail)
	}

	o.backend.SendEmailVerification(ctx)

	return o.report(core.Success(o.CurrentUser()), core.ProviderEmail)
}

// LoginWithEmail signs in with an email/password pair. The provider registry
// is consulted first; the backend sign-in is only ever attempted when the
// email provider is the provider of record.
func (o *Orchestrator) LoginWithEmail(ctx context.Context, email, password string) core.AuthResult {
	res, err := o.resolver.Resolve(ctx, core.ProviderEmail, email)
	if err != nil {
		return o.report(core.Failure(err), core.ProviderEmail)
	}

	switch res.Kind {
	case ResolutionWrongProvider:
		return o.report(core.WrongProvider(res.Actual, email), core.ProviderEmail)
	case ResolutionNoAccount:
		return o.report(core.NoAccount(email), core.ProviderEmail)
	}

	if _, err := o.backend.SignIn(ctx, email, password); err != nil {
		return o.report(core.Failure(err), core.ProviderEmail)
	}
	return o.report(core.Success(o.CurrentUser()), core.ProviderEmail)
}

// CheckEmailAvailability runs the provider pre-check without attempting a
// login. An email with no registration is available, so both the match and
// the no-account case report PreflightSuccess; only a conflicting social
// registration blocks the email path.
func (o *Orchestrator) CheckEmailAvailability(ctx context.Context, email string) core.AuthResult {
	res, err := o.resolver.Resolve(ctx, core.ProviderEmail, email)
	if err != nil {
		return o.report(core.Failure(err), core.ProviderEmail)
	}

	if res.Kind == ResolutionWrongProvider {
		return o.report(core.WrongProvider(res.Actual, email), core.ProviderEmail)
	}
	return o.report(core.PreflightSuccess(email), core.ProviderEmail)
}

// LoginWithProvider runs a social provider's consent flow and signs the
// resulting credential in to the backend. There is no pre-check: the user
// already completed OAuth consent, so the backend is the first to learn about
// a conflicting registration.
func (o *Orchestrator) LoginWithProvider(ctx context.Context, provider core.AccountProvider) core.AuthResult {
	adapter, ok := o.adapters[provider]
	if !ok {
		return o.report(core.Failure(core.ErrAdapterNotConfigured), provider)
	}

	cred, err := adapter.SignIn(ctx)
	if err != nil {
		return o.report(core.Failure(err), provider)
	}

	if _, err := o.backend.SignInWithCredential(ctx, cred); err != nil {
		return o.report(o.recoverSocialFailure(ctx, provider, err), provider)
	}
	return o.report(core.Success(o.CurrentUser()), provider)
}

// recoverSocialFailure decides whether a failed credential sign-in can be
// explained as a wrong-provider attempt. The local OAuth sessions are torn
// down first so they cannot disagree with the backend's session state.
//
// Without an embedded email the mismatch cannot be resolved and the original
// error stands; the same holds when the registry lookup fails or finds no
// different provider.
func (o *Orchestrator) recoverSocialFailure(ctx context.Context, provider core.AccountProvider, signInErr error) core.AuthResult {
	o.signOutAdapters(ctx)

	resp := core.InspectWrongProvider(signInErr)
	if !resp.WrongProvider {
		return core.Failure(signInErr)
	}

	res, err := o.resolver.Resolve(ctx, provider, resp.Email)
	if err != nil || res.Kind != ResolutionWrongProvider {
		return core.Failure(signInErr)
	}
	return core.WrongProvider(res.Actual, resp.Email)
}

// signOutAdapters tears down every OAuth adapter's local session.
// Best-effort: errors are discarded.
func (o *Orchestrator) signOutAdapters(ctx context.Context) {
	for _, a := range o.adapters {
		_ = a.SignOut(ctx)
	}
}

// Logout signs out of every OAuth adapter best-effort, then out of the
// backend. Only the backend sign-out decides the returned success; signing
// out with no active session succeeds.
func (o *Orchestrator) Logout(ctx context.Context) bool {
	o.signOutAdapters(ctx)
	return o.backend.SignOut(ctx) == nil
}

// ResetPassword forwards to the backend's password-reset email flow.
func (o *Orchestrator) ResetPassword(ctx context.Context, email string) error {
	return o.backend.SendPasswordReset(ctx, email)
}

// Reauthenticate re-verifies the current user's email/password pair.
func (o *Orchestrator) Reauthenticate(ctx context.Context, email, password string) error {
	return o.backend.Reauthenticate(ctx, email, password)
}

// ChangePassword updates the current user's password.
func (o *Orchestrator) ChangePassword(ctx context.Context, newPassword string) error {
	return o.backend.UpdatePassword(ctx, newPassword)
}

// Token returns a force-refreshed ID token for the active session, or an
// empty token without error when no session exists.
func (o *Orchestrator) Token(ctx context.Context) (string, error) {
	if o.backend.CurrentUser() == nil {
		return "", nil
	}
	return o.backend.IDToken(ctx, true)
}

// CurrentUser reads the backend's ambient session. Nil when signed out.
func (o *Orchestrator) CurrentUser() *core.User {
	return o.backend.CurrentUser()
}

// AccountType returns the current session's provider of record, or ok=false
// when there is no session or the backend reports an unknown provider ID.
func (o *Orchestrator) AccountType() (core.AccountProvider, bool) {
	raw := o.backend.CurrentProviderID()
	if raw == "" {
		return "", false
	}
	return core.ParseProvider(raw)
}
