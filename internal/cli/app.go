package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/lightningpass/internal/accounts"
	"github.com/dmitrijs2005/lightningpass/internal/config"
	"github.com/dmitrijs2005/lightningpass/internal/filex"
	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/store"
)

// accountService is what the CLI needs from accounts.Manager.
type accountService interface {
	Register(ctx context.Context, username, password, confirmPassword, email string) (*accounts.Account, error)
	Login(ctx context.Context, username, password string) (*accounts.Account, error)
	IssueResetToken(ctx context.Context, email string) (string, error)
	RedeemResetToken(ctx context.Context, token string) (*accounts.Account, error)
}

type App struct {
	config   *config.Config
	db       *store.Store
	accounts accountService
	account  *accounts.Account
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the configured store, applies migrations and prepares the
// pictures directory.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := store.Open(ctx, c.Dialect(), c.DSN, logger)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	dir, err := filex.EnsureDir(c.PicturesDir)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating pictures dir: %w", err)
	}

	return &App{
		config:   c,
		db:       db,
		accounts: accounts.NewManager(db, logger, dir, c.ResetTokenTTL),
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run blocks in the REPL until the user exits, then closes the store.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.db.Close(); err != nil {
			a.logger.Error(ctx, "error closing database", "error", err)
		}
	}()

	printlnFn("Welcome to lightningpass (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)

	if a.account != nil {
		a.account.Logout()
	}
}

func (a *App) isLoggedIn() bool {
	return a.account != nil
}

// status renders the prompt suffix, e.g. " (alice, unlocked)".
func (a *App) status() string {
	if a.account == nil {
		return ""
	}
	name, err := a.account.Username(context.Background())
	if err != nil {
		name = "?"
	}
	state := "locked"
	if a.account.VaultUnlocked() {
		state = "unlocked"
	}
	return fmt.Sprintf(" (%s, %s)", name, state)
}

func (a *App) text(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) secret(prompt string) (string, error) {
	return getPassword(prompt, a.out)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
