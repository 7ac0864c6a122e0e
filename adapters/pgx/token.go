package pgx

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mavrk/authflow/core"
)

// IDToken returns a signed token for the current session. Without a
// session it fails with core.ErrNoSession. When forceRefresh is false a
// previously issued token is reused until it nears expiry.
func (b *Backend) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return "", core.ErrNoSession
	}

	if !forceRefresh && b.current.token != "" && time.Until(b.current.tokenExp) > time.Minute {
		return b.current.token, nil
	}

	now := time.Now()
	exp := now.Add(b.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"sub":   b.current.user.UID,
		"email": b.current.user.Email,
		"prv":   b.current.providerID,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(b.cfg.Secret))
	if err != nil {
		return "", err
	}

	b.current.token = signed
	b.current.tokenExp = exp
	return signed, nil
}

// VerifyIDToken parses a token issued by IDToken and returns its subject
// and email. Expired or tampered tokens fail.
func (b *Backend) VerifyIDToken(token string) (uid, email string, err error) {
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(b.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", err
	}

	uid, _ = claims["sub"].(string)
	email, _ = claims["email"].(string)
	return uid, email, nil
}
