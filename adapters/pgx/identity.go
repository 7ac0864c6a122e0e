package pgx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mavrk/authflow/core"
	"github.com/mavrk/authflow/pkg/crypto"
)

func (b *Backend) CreateAccount(ctx context.Context, email, password string) (*core.User, error) {
	existing, err := b.fetchRegisteredProviders(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if len(existing) > 0 {
		return nil, core.ErrUserExists
	}

	uid, err := crypto.NewUID()
	if err != nil {
		return nil, err
	}

	hashed, err := b.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &core.User{UID: uid, Email: email, CreatedAt: &now, LastSignInAt: &now}

	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO public.users (id, email, created_at, last_sign_in_at) VALUES ($1, $2, $3, $4)`,
		uid, email, now, now,
	); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO public.accounts (user_id, provider_id, account_id, password, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uid, core.ProviderEmail.String(), uid, hashed, now,
	); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	b.invalidateProviders(email)
	b.setSession(user, core.ProviderEmail.String())
	b.log.DebugContext(ctx, "account created", "uid", uid)
	return user, nil
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (*core.User, error) {
	user, err := b.getUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, err
	}

	var hashed string
	err = b.pool.QueryRow(ctx,
		`SELECT password FROM public.accounts WHERE user_id = $1 AND provider_id = $2`,
		user.UID, core.ProviderEmail.String(),
	).Scan(&hashed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := b.passwords.Verify(password, hashed)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, core.ErrInvalidCredentials
	}

	if err := b.touchLastSignIn(ctx, user); err != nil {
		return nil, err
	}

	b.setSession(user, core.ProviderEmail.String())
	return user, nil
}

func (b *Backend) SignInWithCredential(ctx context.Context, cred core.Credential) (*core.User, error) {
	if b.cfg.ResolveCredential == nil {
		return nil, errors.New("no credential resolver configured")
	}

	id, err := b.cfg.ResolveCredential(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("resolve credential: %w", err)
	}

	user, err := b.getUserByEmail(ctx, id.Email)
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		// First social sign-in provisions the account.
		return b.provisionSocialUser(ctx, cred.Provider, id)
	case err != nil:
		return nil, err
	}

	registered, err := b.fetchRegisteredProviders(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	if len(registered) > 0 && registered[0] != cred.Provider.String() {
		// The account's provider of record differs from the credential's.
		// The conflicting email is the only hint handed back.
		return nil, &core.ConflictError{Email: id.Email}
	}

	if err := b.touchLastSignIn(ctx, user); err != nil {
		return nil, err
	}

	b.setSession(user, cred.Provider.String())
	return user, nil
}

func (b *Backend) provisionSocialUser(ctx context.Context, provider core.AccountProvider, id Identity) (*core.User, error) {
	uid, err := crypto.NewUID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &core.User{UID: uid, Email: id.Email, CreatedAt: &now, LastSignInAt: &now}

	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO public.users (id, email, created_at, last_sign_in_at) VALUES ($1, $2, $3, $4)`,
		uid, id.Email, now, now,
	); err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO public.accounts (user_id, provider_id, account_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		uid, provider.String(), id.Subject, now,
	); err != nil {
		return nil, fmt.Errorf("provision account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	b.invalidateProviders(id.Email)
	b.setSession(user, provider.String())
	b.log.DebugContext(ctx, "social account provisioned", "uid", uid, "provider", provider.String())
	return user, nil
}

func (b *Backend) FetchProviders(ctx context.Context, email string) ([]string, error) {
	if b.providers != nil {
		if ids, err := b.providers.Get(email); err == nil {
			return ids, nil
		}
	}

	ids, err := b.fetchRegisteredProviders(ctx, email)
	if err != nil {
		return nil, err
	}

	if b.providers != nil {
		_ = b.providers.Set(email, ids)
	}
	return ids, nil
}

// fetchRegisteredProviders reads the provider registry in registration order.
func (b *Backend) fetchRegisteredProviders(ctx context.Context, email string) ([]string, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT a.provider_id
		 FROM public.accounts a
		 JOIN public.users u ON u.id = a.user_id
		 WHERE u.email = $1
		 ORDER BY a.created_at`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (b *Backend) SendPasswordReset(ctx context.Context, email string) error {
	if _, err := b.getUserByEmail(ctx, email); err != nil {
		return err
	}

	pair, err := crypto.GenerateHashedToken()
	if err != nil {
		return err
	}

	if _, err := b.pool.Exec(ctx,
		`INSERT INTO public.password_reset_tokens (email, token_hash, expires_at)
		 VALUES ($1, $2, $3)`,
		email, pair.Hash, time.Now().Add(time.Hour),
	); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if b.cfg.OnResetToken != nil {
		b.cfg.OnResetToken(email, pair.Token)
	}
	return nil
}

func (b *Backend) Reauthenticate(ctx context.Context, email, password string) error {
	current := b.CurrentUser()
	if current == nil {
		return core.ErrNoSession
	}
	if current.Email != email {
		return core.ErrInvalidCredentials
	}

	var hashed string
	err := b.pool.QueryRow(ctx,
		`SELECT password FROM public.accounts WHERE user_id = $1 AND provider_id = $2`,
		current.UID, core.ProviderEmail.String(),
	).Scan(&hashed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrInvalidCredentials
		}
		return err
	}

	ok, err := b.passwords.Verify(password, hashed)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return core.ErrInvalidCredentials
	}
	return nil
}

func (b *Backend) UpdatePassword(ctx context.Context, newPassword string) error {
	current := b.CurrentUser()
	if current == nil {
		return core.ErrNoSession
	}

	hashed, err := b.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tag, err := b.pool.Exec(ctx,
		`UPDATE public.accounts SET password = $1 WHERE user_id = $2 AND provider_id = $3`,
		hashed, current.UID, core.ProviderEmail.String(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrInvalidCredentials
	}
	return nil
}

func (b *Backend) SendEmailVerification(ctx context.Context) {
	// Fire-and-forget: all failures are discarded.
	current := b.CurrentUser()
	if current == nil || current.Email == "" {
		return
	}

	pair, err := crypto.GenerateHashedToken()
	if err != nil {
		return
	}

	if _, err := b.pool.Exec(ctx,
		`INSERT INTO public.email_verification_tokens (email, token_hash, expires_at)
		 VALUES ($1, $2, $3)`,
		current.Email, pair.Hash, time.Now().Add(24*time.Hour),
	); err != nil {
		b.log.DebugContext(ctx, "verification token not stored", "error", err)
		return
	}

	if b.cfg.OnVerificationToken != nil {
		b.cfg.OnVerificationToken(current.Email, pair.Token)
	}
}

func (b *Backend) getUserByEmail(ctx context.Context, email string) (*core.User, error) {
	user := &core.User{}
	err := b.pool.QueryRow(ctx,
		`SELECT id, email, created_at, last_sign_in_at FROM public.users WHERE email = $1`,
		email,
	).Scan(&user.UID, &user.Email, &user.CreatedAt, &user.LastSignInAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (b *Backend) touchLastSignIn(ctx context.Context, user *core.User) error {
	now := time.Now()
	if _, err := b.pool.Exec(ctx,
		`UPDATE public.users SET last_sign_in_at = $1 WHERE id = $2`,
		now, user.UID,
	); err != nil {
		return err
	}
	user.LastSignInAt = &now
	return nil
}

func (b *Backend) invalidateProviders(email string) {
	if b.providers != nil {
		_ = b.providers.Delete(email)
	}
}
