package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/store/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUpContext is a test seam for goose.UpContext.
var gooseUpContext = goose.UpContext

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// RunMigrations applies the embedded migrations for dialect to db.
func RunMigrations(ctx context.Context, db *sql.DB, dialect dbx.Dialect, logger logging.Logger) error {
	var gooseDialect, dir string
	switch dialect {
	case dbx.SQLite:
		gooseDialect, dir = "sqlite3", "sqlite"
	case dbx.Postgres:
		gooseDialect, dir = "postgres", "postgres"
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownDialect, dialect)
	}

	if logger == nil {
		logger = logging.Discard()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(&gooseLogger{ctx: ctx, l: logger})

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, dir)
}

// gooseLogger routes goose output to a logging.Logger.
type gooseLogger struct {
	ctx context.Context
	l   logging.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.l.Info(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}
