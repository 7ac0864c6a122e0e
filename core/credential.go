package core

import (
	"errors"
	"fmt"
)

// Credential is an opaque, backend-verifiable proof of identity produced by a
// provider-specific token exchange. The orchestration layer never interprets
// its token material; the backend does.
type Credential struct {
	Provider    AccountProvider
	IDToken     string
	AccessToken string
}

// ConflictError is returned by a backend when sign-in fails because an
// account already exists for the credential's email under a different
// provider. The embedded email is the only hint the backend can give.
type ConflictError struct {
	Email string
	Err   error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("account exists with different credential for %s", e.Email)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// WrongProviderResponse is the result of inspecting a backend error for an
// embedded conflicting-account email. It is ephemeral and never persisted.
type WrongProviderResponse struct {
	WrongProvider bool
	Email         string
}

// InspectWrongProvider checks whether err carries a conflicting-account
// email. No email means the mismatch cannot be resolved.
func InspectWrongProvider(err error) WrongProviderResponse {
	var conflict *ConflictError
	if errors.As(err, &conflict) && conflict.Email != "" {
		return WrongProviderResponse{WrongProvider: true, Email: conflict.Email}
	}
	return WrongProviderResponse{}
}
