// Package tokens manages password reset tokens. A user holds at most one
// live token; tokens older than the configured lifetime are purged before a
// new one is issued and can never be redeemed.
package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/store"
)

// DefaultTTL is how long an issued token stays redeemable.
const DefaultTTL = 30 * time.Minute

// tokenBytes is the amount of randomness in front of the user id.
const tokenBytes = 15

type Repository struct {
	db  *store.Store
	ttl time.Duration
	now func() time.Time
}

func New(db *store.Store, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{db: db, ttl: ttl, now: time.Now}
}

// Issue purges expired tokens, replaces any token the user already holds and
// returns a fresh one.
func (r *Repository) Issue(ctx context.Context, userID int64) (string, error) {
	random, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := random + strconv.FormatInt(userID, 10)
	now := r.now().UTC()

	err = r.db.InTx(ctx, func(ctx context.Context, tx *store.Store) error {
		if err := r.purge(ctx, tx, now); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM tokens WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("error performing sql request: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO tokens (user_id, token, creation_date) VALUES (?, ?, ?)`,
			userID, token, now); err != nil {
			return fmt.Errorf("error performing sql request: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Consume redeems token and returns the id of the user it was issued to.
// A token can be redeemed once; unknown and expired tokens fail with
// common.ErrInvalidToken.
func (r *Repository) Consume(ctx context.Context, token string) (int64, error) {
	var (
		userID  int64
		expired bool
	)

	err := r.db.InTx(ctx, func(ctx context.Context, tx *store.Store) error {
		var created time.Time
		err := tx.QueryRow(ctx, `SELECT user_id, creation_date FROM tokens WHERE token = ?`, token).
			Scan(&userID, &created)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("db error: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM tokens WHERE token = ?`, token); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		expired = r.expired(created, r.now())
		return nil
	})
	if err != nil {
		return 0, err
	}
	if expired {
		return 0, common.ErrInvalidToken
	}
	return userID, nil
}

func (r *Repository) expired(created, now time.Time) bool {
	return now.Sub(created) > r.ttl
}

func (r *Repository) purge(ctx context.Context, tx *store.Store, now time.Time) error {
	rows, err := tx.Query(ctx, `SELECT id, creation_date FROM tokens`)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	var stale []int64
	for rows.Next() {
		var (
			id      int64
			created time.Time
		)
		if err := rows.Scan(&id, &created); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan token row: %w", err)
		}
		if r.expired(created, now) {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate token rows: %w", err)
	}
	rows.Close()

	for _, id := range stale {
		if _, err := tx.Exec(ctx, `DELETE FROM tokens WHERE id = ?`, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
