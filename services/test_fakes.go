package services

import (
	"context"
	"sync"

	"github.com/mavrk/authflow/core"
)

// FakeBackend is a test-only fake implementing core.IdentityBackend. It keeps
// a provider registry and ambient session in maps and exposes error fields
// for behavior injection.
type FakeBackend struct {
	mu sync.Mutex

	providersByEmail map[string][]string
	passwords        map[string]string

	current         *core.User
	currentProvider string

	createErr     error
	signInErr     error
	credentialErr error
	fetchErr      error
	signOutErr    error
	resetErr      error
	reauthErr     error
	updateErr     error
	tokenErr      error
	token         string

	verificationsSent int
	signInCalls       int
	credentialCalls   int
	signOutCalls      int
	resetCalls        int
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		providersByEmail: make(map[string][]string),
		passwords:        make(map[string]string),
	}
}

// RegisterEmail seeds the provider registry for an email.
func (f *FakeBackend) RegisterEmail(email string, providerIDs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.providersByEmail[email] = providerIDs
}

func (f *FakeBackend) CreateAccount(ctx context.Context, email, password string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.providersByEmail[email]; exists {
		return nil, core.ErrUserExists
	}
	f.providersByEmail[email] = []string{core.ProviderEmail.String()}
	f.passwords[email] = password
	f.current = &core.User{UID: "uid-" + email, Email: email}
	f.currentProvider = core.ProviderEmail.String()
	return f.current, nil
}

func (f *FakeBackend) SignIn(ctx context.Context, email, password string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	if f.passwords[email] != password {
		return nil, core.ErrInvalidCredentials
	}
	f.current = &core.User{UID: "uid-" + email, Email: email}
	f.currentProvider = core.ProviderEmail.String()
	return f.current, nil
}

func (f *FakeBackend) SignInWithCredential(ctx context.Context, cred core.Credential) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credentialCalls++
	if f.credentialErr != nil {
		return nil, f.credentialErr
	}
	f.current = &core.User{UID: "uid-" + string(cred.Provider)}
	f.currentProvider = cred.Provider.String()
	return f.current, nil
}

func (f *FakeBackend) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalls++
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.current = nil
	f.currentProvider = ""
	return nil
}

func (f *FakeBackend) SendPasswordReset(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetCalls++
	return f.resetErr
}

func (f *FakeBackend) Reauthenticate(ctx context.Context, email, password string) error {
	return f.reauthErr
}

func (f *FakeBackend) UpdatePassword(ctx context.Context, newPassword string) error {
	return f.updateErr
}

func (f *FakeBackend) FetchProviders(ctx context.Context, email string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.providersByEmail[email], nil
}

func (f *FakeBackend) SendEmailVerification(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verificationsSent++
}

func (f *FakeBackend) CurrentUser() *core.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *FakeBackend) CurrentProviderID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentProvider
}

func (f *FakeBackend) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return f.token, nil
}

// FakeOAuth is a test-only fake implementing core.OAuthAdapter.
type FakeOAuth struct {
	mu sync.Mutex

	provider  core.AccountProvider
	cred      core.Credential
	signInErr error

	signInCalls  int
	signOutCalls int
}

func NewFakeOAuth(provider core.AccountProvider) *FakeOAuth {
	return &FakeOAuth{
		provider: provider,
		cred:     core.Credential{Provider: provider, IDToken: "id-token", AccessToken: "access-token"},
	}
}

func (f *FakeOAuth) Provider() core.AccountProvider { return f.provider }

func (f *FakeOAuth) SignIn(ctx context.Context) (core.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signInCalls++
	if f.signInErr != nil {
		return core.Credential{}, f.signInErr
	}
	return f.cred, nil
}

func (f *FakeOAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalls++
	return nil
}

func (f *FakeOAuth) SignOutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signOutCalls
}

// RecordingObserver is a test-only observer capturing every report in order.
type RecordingObserver struct {
	mu      sync.Mutex
	results []core.AuthResult
	sources []core.AccountProvider
}

func (r *RecordingObserver) AuthComplete(res core.AuthResult, provider core.AccountProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	r.sources = append(r.sources, provider)
}

// Last returns the most recent report, or ok=false when none was delivered.
func (r *RecordingObserver) Last() (core.AuthResult, core.AccountProvider, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.results) == 0 {
		return core.AuthResult{}, "", false
	}
	return r.results[len(r.results)-1], r.sources[len(r.sources)-1], true
}

// Count returns the number of reports delivered.
func (r *RecordingObserver) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}
