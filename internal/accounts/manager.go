// Package accounts implements the account lifecycle of lightningpass:
// registration, login, credential changes, password reset tokens, the master
// password that guards the vault and the encrypted vault pages themselves.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/cryptox"
	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/store"
	"github.com/dmitrijs2005/lightningpass/internal/tokens"
	"github.com/dmitrijs2005/lightningpass/internal/validators"
	"github.com/dmitrijs2005/lightningpass/internal/vaults"
)

const credentialsTable = "credentials"

// Manager creates Account handles and owns everything they share.
type Manager struct {
	db          *store.Store
	vaults      *vaults.Store
	tokens      *tokens.Repository
	v           *validators.Validators
	logger      logging.Logger
	now         func() time.Time
	picturesDir string
}

// NewManager builds a Manager over an opened store. Profile pictures are
// copied into picturesDir; reset tokens live for tokenTTL (the default when
// zero).
func NewManager(db *store.Store, logger logging.Logger, picturesDir string, tokenTTL time.Duration) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{
		db:          db,
		vaults:      vaults.New(db),
		tokens:      tokens.New(db, tokenTTL),
		v:           validators.New(db),
		logger:      logger,
		now:         time.Now,
		picturesDir: picturesDir,
	}
}

func (m *Manager) account(id int64) *Account {
	return &Account{ID: id, m: m, cache: make(map[string]any)}
}

// Register validates the new credentials and inserts the account.
//
// Checks run in this order and the first failure is returned:
// username taken, username pattern, password pattern, password confirmation,
// email taken, email pattern.
func (m *Manager) Register(ctx context.Context, username, password, confirmPassword, email string) (*Account, error) {
	err := validators.Run(ctx,
		m.v.Username.UniqueCheck(username, false),
		m.v.Username.PatternCheck(username),
		m.v.Password.PatternCheck(password),
		m.v.Password.MatchCheck(password, confirmPassword),
		m.v.Email.UniqueCheck(email, false),
		m.v.Email.PatternCheck(email),
	)
	if err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, err
	}

	id, err := m.db.Insert(ctx,
		`INSERT INTO credentials (username, password, email, register_date) VALUES (?, ?, ?, ?)`,
		username, hash, email, m.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	m.logger.Info(ctx, "account registered", "user_id", id)
	return m.account(id), nil
}

// Login authenticates username and password. An unknown username and a wrong
// password both fail with common.ErrAccountDoesNotExist.
func (m *Manager) Login(ctx context.Context, username, password string) (*Account, error) {
	if err := m.v.Username.Unique(ctx, username, true); err != nil {
		if errors.Is(err, common.ErrAccountDoesNotExist) {
			cryptox.BurnPasswordCheck(password)
			m.logger.Warn(ctx, "login failed")
		}
		return nil, err
	}

	var id int64
	if err := m.db.GetItem(ctx, credentialsTable, "username", username, "id", &id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountDoesNotExist
		}
		return nil, err
	}

	a := m.account(id)
	hash, err := a.passwordHash(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.v.Password.Authenticate(password, hash); err != nil {
		m.logger.Warn(ctx, "login failed")
		return nil, err
	}

	prev, err := a.timestamp(ctx, "last_login_date")
	if err != nil {
		return nil, err
	}
	if err := m.db.SetItem(ctx, credentialsTable, "id", id, "last_login_date", m.now().UTC()); err != nil {
		return nil, err
	}
	a.currentLoginDate = prev

	m.logger.Info(ctx, "user logged in", "user_id", id)
	return a, nil
}

// Load returns a handle for an existing account id without authenticating.
func (m *Manager) Load(ctx context.Context, id int64) (*Account, error) {
	ok, err := m.db.Exists(ctx, credentialsTable, "id", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrAccountDoesNotExist
	}
	return m.account(id), nil
}

// IssueResetToken creates a password reset token for the account registered
// with email.
func (m *Manager) IssueResetToken(ctx context.Context, email string) (string, error) {
	var id int64
	if err := m.db.GetItem(ctx, credentialsTable, "email", email, "id", &id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrAccountDoesNotExist
		}
		return "", err
	}

	token, err := m.tokens.Issue(ctx, id)
	if err != nil {
		return "", err
	}
	m.logger.Info(ctx, "reset token issued", "user_id", id)
	return token, nil
}

// RedeemResetToken consumes token and returns the account it was issued for.
// The caller is expected to follow up with Account.ResetPassword.
func (m *Manager) RedeemResetToken(ctx context.Context, token string) (*Account, error) {
	id, err := m.tokens.Consume(ctx, token)
	if err != nil {
		return nil, err
	}
	m.logger.Info(ctx, "reset token redeemed", "user_id", id)
	return m.account(id), nil
}
