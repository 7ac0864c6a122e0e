package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mavrk/authflow/adapters/pgx"
	"github.com/mavrk/authflow/core"
)

const defaultGraphURL = "https://graph.facebook.com/v19.0"

// ErrNoEmail reports a Facebook account whose email the Graph API will not
// disclose. Without an email the account cannot be matched to a provider
// registration.
var ErrNoEmail = errors.New("facebook: account has no accessible email")

// GraphClient resolves Facebook access tokens to identities through the
// Graph API. Its Resolve method satisfies pgx.CredentialResolver.
type GraphClient struct {
	// BaseURL overrides the Graph API root, for tests.
	BaseURL string

	http *http.Client
}

func NewGraphClient() *GraphClient {
	return &GraphClient{
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Resolve fetches the token's account from the Graph API and returns the
// identity it attests.
func (g *GraphClient) Resolve(ctx context.Context, cred core.Credential) (pgx.Identity, error) {
	if cred.AccessToken == "" {
		return pgx.Identity{}, core.ErrMissingCredential
	}

	profile, err := g.Me(ctx, cred.AccessToken)
	if err != nil {
		return pgx.Identity{}, err
	}
	if profile.Email == "" {
		return pgx.Identity{}, ErrNoEmail
	}
	return pgx.Identity{Subject: profile.ID, Email: profile.Email}, nil
}

// Profile is the subset of the Graph API /me response the adapter uses.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Me fetches the profile the access token belongs to.
func (g *GraphClient) Me(ctx context.Context, accessToken string) (*Profile, error) {
	base := g.BaseURL
	if base == "" {
		base = defaultGraphURL
	}

	q := url.Values{}
	q.Set("fields", "id,name,email")
	q.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/me?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var body struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    int    `json:"code"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("facebook: graph api %d: %s", resp.StatusCode, body.Error.Message)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
