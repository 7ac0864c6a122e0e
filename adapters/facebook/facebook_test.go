package facebook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mavrk/authflow/core"
)

type signInResult struct {
	cred core.Credential
	err  error
}

func startSignIn(t *testing.T, ctx context.Context, a *Adapter) <-chan signInResult {
	t.Helper()
	done := make(chan signInResult, 1)
	go func() {
		cred, err := a.SignIn(ctx)
		done <- signInResult{cred, err}
	}()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		a.mu.Lock()
		pending := a.pending != nil
		a.mu.Unlock()
		if pending {
			return done
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("sign-in never became pending")
	return done
}

func TestSignIn_DeliverCompletesFlow(t *testing.T) {
	// Requirement: the delivered access token becomes the credential; the
	// ID token stays empty since Facebook issues none.
	a := NewAdapter()
	done := startSignIn(t, context.Background(), a)

	a.Deliver("fb-access-token")

	res := <-done
	if res.err != nil {
		t.Fatalf("SignIn: %v", res.err)
	}
	if res.cred.Provider != core.ProviderFacebook {
		t.Errorf("provider = %v", res.cred.Provider)
	}
	if res.cred.AccessToken != "fb-access-token" || res.cred.IDToken != "" {
		t.Errorf("credential = %+v", res.cred)
	}
}

func TestSignIn_EmptyTokenIsMissingCredential(t *testing.T) {
	a := NewAdapter()
	done := startSignIn(t, context.Background(), a)

	a.Deliver("")

	res := <-done
	if !errors.Is(res.err, core.ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", res.err)
	}
}

func TestSignOut_CancelsPendingFlow(t *testing.T) {
	a := NewAdapter()
	done := startSignIn(t, context.Background(), a)

	if err := a.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	res := <-done
	if !errors.Is(res.err, ErrCanceled) {
		t.Fatalf("err = %v, want ErrCanceled", res.err)
	}
}

func TestGraphClient_Resolve(t *testing.T) {
	t.Run("profile with email", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("access_token"); got != "tok-1" {
				t.Errorf("access_token = %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"10001","name":"Ada","email":"ada@example.com"}`))
		}))
		defer srv.Close()

		g := NewGraphClient()
		g.BaseURL = srv.URL

		id, err := g.Resolve(context.Background(), core.Credential{
			Provider:    core.ProviderFacebook,
			AccessToken: "tok-1",
		})
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if id.Subject != "10001" || id.Email != "ada@example.com" {
			t.Errorf("identity = %+v", id)
		}
	})

	t.Run("profile without email", func(t *testing.T) {
		// Requirement: an account whose email is not disclosed cannot be
		// resolved to an identity.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"10002","name":"NoMail"}`))
		}))
		defer srv.Close()

		g := NewGraphClient()
		g.BaseURL = srv.URL

		if _, err := g.Resolve(context.Background(), core.Credential{AccessToken: "tok-2"}); !errors.Is(err, ErrNoEmail) {
			t.Fatalf("err = %v, want ErrNoEmail", err)
		}
	})

	t.Run("graph error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190}}`))
		}))
		defer srv.Close()

		g := NewGraphClient()
		g.BaseURL = srv.URL

		if _, err := g.Resolve(context.Background(), core.Credential{AccessToken: "bad"}); err == nil {
			t.Fatal("expected an error for a rejected token")
		}
	})

	t.Run("empty token short-circuits", func(t *testing.T) {
		g := NewGraphClient()
		if _, err := g.Resolve(context.Background(), core.Credential{}); !errors.Is(err, core.ErrMissingCredential) {
			t.Fatalf("err = %v, want ErrMissingCredential", err)
		}
	})
}
