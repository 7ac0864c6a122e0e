package google

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mavrk/authflow/adapters/pgx"
	"github.com/mavrk/authflow/core"
)

const defaultDiscoveryURL = "https://accounts.google.com/.well-known/openid-configuration"

type discoveryDoc struct {
	Issuer        string `json:"issuer"`
	TokenEndpoint string `json:"token_endpoint"`
	JWKSURI       string `json:"jwks_uri"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"` // base64url modulus
	E   string `json:"e"` // base64url exponent
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

// Verifier validates Google ID tokens against the published JWKS and
// resolves them to backend identities. Its Resolve method satisfies
// pgx.CredentialResolver.
type Verifier struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// DiscoveryURL overrides the OpenID discovery endpoint, for tests.
	DiscoveryURL string

	http *http.Client

	mu     sync.RWMutex
	disc   *discoveryDoc
	discAt time.Time
	keys   *jwkSet
	keysAt time.Time
}

func NewVerifier(clientID, clientSecret, redirectURL string) *Verifier {
	return &Verifier{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// Resolve verifies cred's ID token and returns the identity it attests.
func (v *Verifier) Resolve(ctx context.Context, cred core.Credential) (pgx.Identity, error) {
	if cred.IDToken == "" {
		return pgx.Identity{}, core.ErrMissingCredential
	}

	claims, err := v.VerifyIDToken(ctx, cred.IDToken)
	if err != nil {
		return pgx.Identity{}, err
	}
	if claims.Email == "" {
		return pgx.Identity{}, errors.New("google: id token carries no email")
	}
	return pgx.Identity{Subject: claims.Sub, Email: claims.Email}, nil
}

// IDClaims are the verified claims of a Google ID token.
type IDClaims struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// VerifyIDToken validates signature, issuer, audience and expiry.
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*IDClaims, error) {
	kid, err := tokenKeyID(idToken)
	if err != nil {
		return nil, err
	}

	key, err := v.keyFor(ctx, kid)
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		return nil, fmt.Errorf("google: invalid id token: %w", err)
	}

	iss, _ := claims["iss"].(string)
	if iss != "https://accounts.google.com" && iss != "accounts.google.com" {
		return nil, fmt.Errorf("google: unexpected issuer %q", iss)
	}
	if !audienceMatches(claims["aud"], v.ClientID) {
		return nil, errors.New("google: audience mismatch")
	}

	out := &IDClaims{
		Sub:     stringClaim(claims, "sub"),
		Email:   stringClaim(claims, "email"),
		Name:    stringClaim(claims, "name"),
		Picture: stringClaim(claims, "picture"),
	}
	out.EmailVerified, _ = claims["email_verified"].(bool)
	return out, nil
}

// TokenResponse is Google's token-endpoint response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// ExchangeCode trades an authorization code for tokens. The application
// feeds the result to Adapter.Deliver.
func (v *Verifier) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	disc, err := v.discovery(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", v.ClientID)
	form.Set("client_secret", v.ClientSecret)
	form.Set("redirect_uri", v.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, disc.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var body struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("google: token endpoint %d: %s %s", resp.StatusCode, body.Error, body.Description)
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (v *Verifier) discovery(ctx context.Context) (*discoveryDoc, error) {
	v.mu.RLock()
	disc := v.disc
	fresh := time.Since(v.discAt) < 24*time.Hour
	v.mu.RUnlock()
	if disc != nil && fresh {
		return disc, nil
	}

	target := v.DiscoveryURL
	if target == "" {
		target = defaultDiscoveryURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var dd discoveryDoc
	if err := json.NewDecoder(resp.Body).Decode(&dd); err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.disc = &dd
	v.discAt = time.Now()
	v.mu.Unlock()
	return &dd, nil
}

func (v *Verifier) keyFor(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	keys, err := v.jwks(ctx)
	if err != nil {
		return nil, err
	}
	for _, k := range keys.Keys {
		if k.Kid == kid && strings.EqualFold(k.Kty, "RSA") {
			return rsaKey(k)
		}
	}
	return nil, fmt.Errorf("google: no jwks key for kid %q", kid)
}

func (v *Verifier) jwks(ctx context.Context) (*jwkSet, error) {
	v.mu.RLock()
	keys := v.keys
	fresh := time.Since(v.keysAt) < time.Hour
	v.mu.RUnlock()
	if keys != nil && fresh {
		return keys, nil
	}

	disc, err := v.discovery(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, disc.JWKSURI, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("google: jwks endpoint %d", resp.StatusCode)
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.keys = &set
	v.keysAt = time.Now()
	v.mu.Unlock()
	return &set, nil
}

func rsaKey(k jwk) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}

	e := 0
	for _, b := range eb {
		e = (e << 8) | int(b)
	}
	if e == 0 {
		e = 65537
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}

func tokenKeyID(idToken string) (string, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return "", errors.New("google: malformed jwt")
	}
	hb, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", err
	}
	var header struct {
		Alg string `json:"alg"`
		Kid string `json:"kid"`
	}
	if err := json.Unmarshal(hb, &header); err != nil {
		return "", err
	}
	if header.Alg != "RS256" {
		return "", fmt.Errorf("google: unexpected alg %q", header.Alg)
	}
	return header.Kid, nil
}

func audienceMatches(aud any, clientID string) bool {
	switch a := aud.(type) {
	case string:
		return a == clientID
	case []any:
		for _, v := range a {
			if s, _ := v.(string); s == clientID {
				return true
			}
		}
	}
	return false
}

func stringClaim(m jwt.MapClaims, key string) string {
	s, _ := m[key].(string)
	return s
}
