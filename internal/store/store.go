// Package store is the credential store adapter: a narrow, dialect-aware
// wrapper over database/sql used by accounts, vaults and tokens. It opens
// SQLite (modernc.org/sqlite) or PostgreSQL (pgx) databases and applies the
// embedded goose migrations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// columns lists every identifier GetItem, SetItem and Exists may touch.
var columns = map[string]map[string]struct{}{
	"credentials": set("id", "username", "password", "email", "profile_picture",
		"last_login_date", "register_date", "last_vault_unlock_date",
		"vault_existence", "master_key", "master_salt"),
	"tokens": set("id", "user_id", "token", "creation_date"),
	"vaults": set("id", "user_id", "platform_name", "website", "username",
		"email", "password", "vault_index"),
}

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Cond is an additional equality condition for Exists.
type Cond struct {
	Column string
	Value  any
}

// Store is bound either to the database or to a single transaction.
type Store struct {
	db      *sql.DB
	q       dbx.DBTX
	dialect dbx.Dialect
}

// New wraps an already opened database. Migrations are not applied.
func New(db *sql.DB, dialect dbx.Dialect) *Store {
	return &Store{db: db, q: db, dialect: dialect}
}

// Open connects to the database described by dialect and dsn and migrates
// it to the latest schema version.
func Open(ctx context.Context, dialect dbx.Dialect, dsn string, logger logging.Logger) (*Store, error) {
	var (
		db  *sql.DB
		err error
	)

	switch dialect {
	case dbx.SQLite:
		db, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err == nil {
			// one connection keeps :memory: databases alive and serialises writers
			db.SetMaxOpenConns(1)
		}
	case dbx.Postgres:
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownDialect, dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, db, dialect, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return New(db, dialect), nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Close releases the underlying database. Closing a transaction-bound Store
// is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Dialect reports the backend the store talks to.
func (s *Store) Dialect() dbx.Dialect {
	return s.dialect
}

// InTx runs fn with a Store bound to a new transaction. When s is already
// transaction-bound, fn joins the running transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, q dbx.DBTX) error {
		return fn(ctx, &Store{q: q, dialect: s.dialect})
	})
}

// Exec runs a statement written with '?' placeholders.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.q.ExecContext(ctx, dbx.Rebind(s.dialect, query), args...)
}

// Query runs a query written with '?' placeholders.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, dbx.Rebind(s.dialect, query), args...)
}

// QueryRow runs a single-row query written with '?' placeholders.
func (s *Store) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, dbx.Rebind(s.dialect, query), args...)
}

// Insert runs an INSERT statement and returns the id allocated for the new row.
func (s *Store) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := s.QueryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetItem scans column of the row where keyColumn equals key into dest.
// It returns common.ErrorNotFound when no such row exists.
func (s *Store) GetItem(ctx context.Context, table, keyColumn string, key any, column string, dest any) error {
	if err := checkColumns(table, keyColumn, column); err != nil {
		return err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`, column, table, keyColumn)
	if err := s.QueryRow(ctx, query, key).Scan(dest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("failed to get %s.%s: %w", table, column, err)
	}
	return nil
}

// SetItem updates column of the row where keyColumn equals key.
// It returns common.ErrorNotFound when no row was affected.
func (s *Store) SetItem(ctx context.Context, table, keyColumn string, key any, column string, value any) error {
	if err := checkColumns(table, keyColumn, column); err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = ? WHERE %s = ?`, table, column, keyColumn)
	res, err := s.Exec(ctx, query, value, key)
	if err != nil {
		return fmt.Errorf("failed to set %s.%s: %w", table, column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set %s.%s: %w", table, column, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Exists reports whether a row with column equal to value, and matching all
// extra conditions, is present in table.
func (s *Store) Exists(ctx context.Context, table, column string, value any, extra ...Cond) (bool, error) {
	cols := []string{column}
	for _, c := range extra {
		cols = append(cols, c.Column)
	}
	if err := checkColumns(table, cols...); err != nil {
		return false, err
	}

	where := []string{column + " = ?"}
	args := []any{value}
	for _, c := range extra {
		where = append(where, c.Column+" = ?")
		args = append(args, c.Value)
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s)`, table, strings.Join(where, " AND "))
	var ok bool
	if err := s.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check %s.%s: %w", table, column, err)
	}
	return ok, nil
}

// Count returns the number of rows in table whose column equals value.
func (s *Store) Count(ctx context.Context, table, column string, value any) (int, error) {
	if err := checkColumns(table, column); err != nil {
		return 0, err
	}

	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, table, column)
	if err := s.QueryRow(ctx, query, value).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func checkColumns(table string, cols ...string) error {
	known, ok := columns[table]
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrUnknownColumn, table)
	}
	for _, c := range cols {
		if _, ok := known[c]; !ok {
			return fmt.Errorf("%w: %s.%s", common.ErrUnknownColumn, table, c)
		}
	}
	return nil
}
