package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/cryptox"
	"github.com/dmitrijs2005/lightningpass/internal/validators"
)

// PasswordData carries a credential change request. Previous and
// ConfirmPrevious are the current login password as typed twice; New and
// ConfirmNew are the replacement.
type PasswordData struct {
	Previous        string
	ConfirmPrevious string
	New             string
	ConfirmNew      string
}

// Account is a handle to one credentials row. It is not safe for concurrent
// use; a session owns exactly one.
type Account struct {
	ID int64

	m     *Manager
	cache map[string]any

	currentLoginDate       time.Time
	currentVaultUnlockDate time.Time

	masterPassword []byte
	vaultUnlocked  bool
}

// cached reads column once and serves later reads from memory. Setters
// replace or drop the entry after a successful write.
func cached[T any](ctx context.Context, a *Account, column string) (T, error) {
	if v, ok := a.cache[column]; ok {
		return v.(T), nil
	}

	var v T
	if err := a.m.db.GetItem(ctx, credentialsTable, "id", a.ID, column, &v); err != nil {
		return v, err
	}
	a.cache[column] = v
	return v, nil
}

func (a *Account) Username(ctx context.Context) (string, error) {
	return cached[string](ctx, a, "username")
}

func (a *Account) Email(ctx context.Context) (string, error) {
	return cached[string](ctx, a, "email")
}

// RegisterDate never changes once the account exists.
func (a *Account) RegisterDate(ctx context.Context) (time.Time, error) {
	return cached[time.Time](ctx, a, "register_date")
}

// LastLoginDate is the time of the most recent login, this session included.
func (a *Account) LastLoginDate(ctx context.Context) (time.Time, error) {
	return a.timestamp(ctx, "last_login_date")
}

// CurrentLoginDate is the login before the one that opened this session, or
// the zero time on a first login.
func (a *Account) CurrentLoginDate() time.Time {
	return a.currentLoginDate
}

// SetUsername validates and stores a new username.
func (a *Account) SetUsername(ctx context.Context, username string) error {
	return a.setUnique(ctx, a.m.v.Username, "username", username)
}

// SetEmail validates and stores a new email address.
func (a *Account) SetEmail(ctx context.Context, email string) error {
	return a.setUnique(ctx, a.m.v.Email, "email", email)
}

func (a *Account) setUnique(ctx context.Context, f *validators.Field, column, value string) error {
	err := validators.Run(ctx,
		f.PatternCheck(value),
		f.UniqueCheck(value, false),
	)
	if err != nil {
		return err
	}

	if err := a.m.db.SetItem(ctx, credentialsTable, "id", a.ID, column, value); err != nil {
		return err
	}
	a.cache[column] = value
	a.m.logger.Info(ctx, "account updated", "user_id", a.ID, "field", column)
	return nil
}

// ChangePassword replaces the login password after re-authenticating the
// current one.
func (a *Account) ChangePassword(ctx context.Context, data PasswordData) error {
	if err := a.validatePasswordData(ctx, data); err != nil {
		return err
	}
	if err := a.storePassword(ctx, data.New); err != nil {
		return err
	}
	a.m.logger.Info(ctx, "password changed", "user_id", a.ID)
	return nil
}

// ResetPassword replaces the login password without the current one. It is
// reached through a redeemed reset token.
func (a *Account) ResetPassword(ctx context.Context, password, confirmPassword string) error {
	err := validators.Run(ctx,
		a.m.v.Password.PatternCheck(password),
		a.m.v.Password.MatchCheck(password, confirmPassword),
	)
	if err != nil {
		return err
	}
	if err := a.storePassword(ctx, password); err != nil {
		return err
	}
	a.m.logger.Info(ctx, "password reset", "user_id", a.ID)
	return nil
}

// Logout locks the vault and forgets cached fields.
func (a *Account) Logout() {
	a.LockVault()
	clear(a.cache)
}

// validatePasswordData authenticates the current password, then checks its
// repetition, the new password pattern and its confirmation.
func (a *Account) validatePasswordData(ctx context.Context, data PasswordData) error {
	hash, err := a.passwordHash(ctx)
	if err != nil {
		return err
	}

	p := a.m.v.Password
	return validators.Run(ctx,
		p.AuthenticateCheck(data.ConfirmPrevious, hash),
		p.MatchCheck(data.Previous, data.ConfirmPrevious),
		p.PatternCheck(data.New),
		p.MatchCheck(data.New, data.ConfirmNew),
	)
}

func (a *Account) storePassword(ctx context.Context, password string) error {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}
	return a.m.db.SetItem(ctx, credentialsTable, "id", a.ID, "password", hash)
}

// passwordHash always reads the stored hash; it is never cached.
func (a *Account) passwordHash(ctx context.Context) (string, error) {
	var hash string
	if err := a.m.db.GetItem(ctx, credentialsTable, "id", a.ID, "password", &hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrAccountDoesNotExist
		}
		return "", err
	}
	return hash, nil
}

func (a *Account) timestamp(ctx context.Context, column string) (time.Time, error) {
	var t sql.NullTime
	if err := a.m.db.GetItem(ctx, credentialsTable, "id", a.ID, column, &t); err != nil {
		return time.Time{}, fmt.Errorf("failed to read %s: %w", column, err)
	}
	return t.Time, nil
}
