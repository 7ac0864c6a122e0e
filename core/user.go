package core

import "time"

// User represents an authenticated principal.
//
// A User is only ever constructed from backend session state. It is computed
// on demand, never cached, and is nil whenever no session is active.
type User struct {
	UID          string     `json:"uid"`
	Email        string     `json:"email,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty"`
}
