// Package vaults stores the per-site credential records ("vault pages") of
// an account. Records are addressed by a zero-based index that stays
// contiguous per user: deleting a record shifts every later one down.
package vaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/store"
	"github.com/dmitrijs2005/lightningpass/internal/validators"
)

// Vault is one credential record. Password holds ciphertext when the record
// comes from or goes to the store.
type Vault struct {
	UserID       int64
	PlatformName string
	Website      string
	Username     string
	Email        string
	Password     []byte
	Index        int
}

type Store struct {
	db *store.Store
}

func New(db *store.Store) *Store {
	return &Store{db: db}
}

// Get returns the record at index, or common.ErrorNotFound.
func (s *Store) Get(ctx context.Context, userID int64, index int) (*Vault, error) {
	query := `
		SELECT user_id, platform_name, website, username, email, password, vault_index
		FROM vaults
		WHERE user_id = ? AND vault_index = ?`

	v := &Vault{}
	err := s.db.QueryRow(ctx, query, userID, index).
		Scan(&v.UserID, &v.PlatformName, &v.Website, &v.Username, &v.Email, &v.Password, &v.Index)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get vault %d: %w", index, err)
	}
	return v, nil
}

// List returns every record of the user ordered by index.
func (s *Store) List(ctx context.Context, userID int64) ([]Vault, error) {
	query := `
		SELECT user_id, platform_name, website, username, email, password, vault_index
		FROM vaults
		WHERE user_id = ?
		ORDER BY vault_index`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vaults: %w", err)
	}
	defer rows.Close()

	var result []Vault
	for rows.Next() {
		var v Vault
		if err := rows.Scan(&v.UserID, &v.PlatformName, &v.Website, &v.Username, &v.Email, &v.Password, &v.Index); err != nil {
			return nil, fmt.Errorf("failed to scan vault row: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vault rows: %w", err)
	}
	return result, nil
}

// Count returns how many records the user has, which is also the next free index.
func (s *Store) Count(ctx context.Context, userID int64) (int, error) {
	return s.db.Count(ctx, "vaults", "user_id", userID)
}

// Validate normalises the website of v and checks the record is complete.
// Errors are reported in order: common.ErrInvalidURL, common.ErrInvalidEmail,
// common.ErrVault.
func Validate(v *Vault) error {
	website, err := validators.NormalizeURL(v.Website)
	if err != nil {
		return err
	}
	if !validators.ValidEmail(v.Email) {
		return common.ErrInvalidEmail
	}
	if v.PlatformName == "" || v.Username == "" || len(v.Password) == 0 || v.Index < 0 {
		return common.ErrVault
	}
	v.Website = website
	return nil
}

// Upsert validates v and writes it at (v.UserID, v.Index), updating an
// existing record in place or appending a new one. A new record must take the
// next free index, otherwise common.ErrVault is returned. v.Website is
// replaced by its canonical form.
func (s *Store) Upsert(ctx context.Context, v *Vault) error {
	if err := Validate(v); err != nil {
		return err
	}

	return s.db.InTx(ctx, func(ctx context.Context, tx *store.Store) error {
		exists, err := tx.Exists(ctx, "vaults", "user_id", v.UserID, store.Cond{Column: "vault_index", Value: v.Index})
		if err != nil {
			return err
		}

		if exists {
			_, err = tx.Exec(ctx, `
				UPDATE vaults
				SET platform_name = ?, website = ?, username = ?, email = ?, password = ?
				WHERE user_id = ? AND vault_index = ?`,
				v.PlatformName, v.Website, v.Username, v.Email, v.Password, v.UserID, v.Index)
			if err != nil {
				return fmt.Errorf("failed to update vault %d: %w", v.Index, err)
			}
			return nil
		}

		n, err := tx.Count(ctx, "vaults", "user_id", v.UserID)
		if err != nil {
			return err
		}
		if v.Index > n {
			return fmt.Errorf("%w: index %d leaves a gap after %d pages", common.ErrVault, v.Index, n)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO vaults (user_id, platform_name, website, username, email, password, vault_index)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			v.UserID, v.PlatformName, v.Website, v.Username, v.Email, v.Password, v.Index)
		if err != nil {
			return fmt.Errorf("failed to insert vault %d: %w", v.Index, err)
		}
		return nil
	})
}

// SetPassword replaces the stored ciphertext of one record.
func (s *Store) SetPassword(ctx context.Context, userID int64, index int, password []byte) error {
	_, err := s.db.Exec(ctx, `UPDATE vaults SET password = ? WHERE user_id = ? AND vault_index = ?`,
		password, userID, index)
	if err != nil {
		return fmt.Errorf("failed to update vault %d password: %w", index, err)
	}
	return nil
}

// Delete removes the record at index and renumbers the user's later records
// down by one in the same transaction.
func (s *Store) Delete(ctx context.Context, userID int64, index int) error {
	return s.db.InTx(ctx, func(ctx context.Context, tx *store.Store) error {
		res, err := tx.Exec(ctx, `DELETE FROM vaults WHERE user_id = ? AND vault_index = ?`, userID, index)
		if err != nil {
			return fmt.Errorf("failed to delete vault %d: %w", index, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to delete vault %d: %w", index, err)
		}
		if n == 0 {
			return common.ErrorNotFound
		}

		_, err = tx.Exec(ctx, `
			UPDATE vaults
			SET vault_index = vault_index - 1
			WHERE user_id = ? AND vault_index > ?`, userID, index)
		if err != nil {
			return fmt.Errorf("failed to shift vault indexes: %w", err)
		}
		return nil
	})
}

// WithStore returns a Store bound to db, typically a transaction.
func (s *Store) WithStore(db *store.Store) *Store {
	return &Store{db: db}
}
