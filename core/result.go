package core

// ResultKind discriminates AuthResult variants.
type ResultKind int

const (
	// ResultSuccess - the backend call succeeded. User may be nil when no
	// session exists immediately after the operation.
	ResultSuccess ResultKind = iota
	// ResultFailure - the backend or an adapter reported an error that
	// resolution could not explain.
	ResultFailure
	// ResultNoAccount - resolution determined no account exists for the email.
	ResultNoAccount
	// ResultWrongProvider - the account exists under a different provider
	// than the one attempted.
	ResultWrongProvider
	// ResultPreflightSuccess - the email-availability check passed; no login
	// was attempted.
	ResultPreflightSuccess
)

// AuthResult is the terminal outcome of an authentication operation. It is
// the sole vocabulary the library uses to communicate outcomes; every
// result-protocol operation produces exactly one.
type AuthResult struct {
	Kind ResultKind

	// User is set for ResultSuccess.
	User *User
	// Err is set for ResultFailure.
	Err error
	// Email is set for ResultNoAccount, ResultWrongProvider, and
	// ResultPreflightSuccess.
	Email string
	// UseProvider is set for ResultWrongProvider. It is the account's
	// provider of record and is always different from the attempted provider.
	UseProvider AccountProvider
}

func Success(user *User) AuthResult {
	return AuthResult{Kind: ResultSuccess, User: user}
}

func Failure(err error) AuthResult {
	return AuthResult{Kind: ResultFailure, Err: err}
}

func NoAccount(email string) AuthResult {
	return AuthResult{Kind: ResultNoAccount, Email: email}
}

func WrongProvider(use AccountProvider, email string) AuthResult {
	return AuthResult{Kind: ResultWrongProvider, UseProvider: use, Email: email}
}

func PreflightSuccess(email string) AuthResult {
	return AuthResult{Kind: ResultPreflightSuccess, Email: email}
}
