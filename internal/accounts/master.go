package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/cryptox"
	"github.com/dmitrijs2005/lightningpass/internal/store"
)

// HashedVaultCredentials is the persisted master password material: the
// verifier proves a derived key is right without storing the key itself.
type HashedVaultCredentials struct {
	Verifier []byte
	Salt     []byte
}

// HashedVaultCredentials returns the stored master password material. ok is
// false when no master password has been set yet.
func (a *Account) HashedVaultCredentials(ctx context.Context) (creds HashedVaultCredentials, ok bool, err error) {
	err = a.m.db.QueryRow(ctx, `SELECT master_key, master_salt FROM credentials WHERE id = ?`, a.ID).
		Scan(&creds.Verifier, &creds.Salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return creds, false, common.ErrAccountDoesNotExist
		}
		return creds, false, fmt.Errorf("db error: %w", err)
	}
	if len(creds.Verifier) == 0 || len(creds.Salt) == 0 {
		return HashedVaultCredentials{}, false, nil
	}
	return creds, true, nil
}

// MasterKey derives the vault key from the master password held in memory.
// ok is false while the vault is locked or before a master password exists.
func (a *Account) MasterKey(ctx context.Context) (key []byte, ok bool, err error) {
	if a.masterPassword == nil {
		return nil, false, nil
	}
	creds, ok, err := a.HashedVaultCredentials(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	return cryptox.DeriveMasterKey(a.masterPassword, creds.Salt), true, nil
}

// SetMasterPassword validates data against the login password and installs
// data.New as the master password. Existing vault pages are re-encrypted
// under the new key in the same transaction that stores the new salt and
// verifier, so it fails with common.ErrVaultLocked when pages exist and the
// vault is locked. On success the vault is left unlocked.
func (a *Account) SetMasterPassword(ctx context.Context, data PasswordData) error {
	if err := a.validatePasswordData(ctx, data); err != nil {
		return err
	}

	oldKey, haveOld, err := a.MasterKey(ctx)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldKey)

	salt := common.GenerateRandByteArray(common.SaltSize)
	newKey := cryptox.DeriveMasterKey([]byte(data.New), salt)
	defer common.WipeByteArray(newKey)

	err = a.m.db.InTx(ctx, func(ctx context.Context, tx *store.Store) error {
		vs := a.m.vaults.WithStore(tx)
		pages, err := vs.List(ctx, a.ID)
		if err != nil {
			return err
		}
		if len(pages) > 0 && !haveOld {
			return common.ErrVaultLocked
		}

		for _, p := range pages {
			ct, err := reencrypt(p.Password, oldKey, newKey)
			if err != nil {
				return fmt.Errorf("failed to re-encrypt vault %d: %w", p.Index, err)
			}
			if err := vs.SetPassword(ctx, a.ID, p.Index, ct); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx,
			`UPDATE credentials SET master_key = ?, master_salt = ?, vault_existence = 1 WHERE id = ?`,
			cryptox.MakeVerifier(newKey), salt, a.ID)
		if err != nil {
			return fmt.Errorf("failed to store master key: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.holdMasterPassword(data.New)
	a.m.logger.Info(ctx, "master password changed", "user_id", a.ID)
	return a.markUnlocked(ctx)
}

func reencrypt(ciphertext, oldKey, newKey []byte) ([]byte, error) {
	plain, err := cryptox.Decrypt(ciphertext, oldKey)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(plain)
	return cryptox.Encrypt(plain, newKey)
}

// UnlockVault checks master against the stored verifier and keeps it in
// memory until LockVault. A wrong password, or an account without a master
// password, fails with common.ErrInvalidMasterPassword.
func (a *Account) UnlockVault(ctx context.Context, master string) error {
	creds, ok, err := a.HashedVaultCredentials(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrInvalidMasterPassword
	}

	key := cryptox.DeriveMasterKey([]byte(master), creds.Salt)
	defer common.WipeByteArray(key)
	if !cryptox.CheckVerifier(key, creds.Verifier) {
		a.m.logger.Warn(ctx, "vault unlock failed", "user_id", a.ID)
		return common.ErrInvalidMasterPassword
	}

	a.holdMasterPassword(master)
	a.m.logger.Info(ctx, "vault unlocked", "user_id", a.ID)
	return a.markUnlocked(ctx)
}

// LockVault wipes the master password. The unlock timestamps are kept.
func (a *Account) LockVault() {
	common.WipeByteArray(a.masterPassword)
	a.masterPassword = nil
	a.vaultUnlocked = false
}

func (a *Account) VaultUnlocked() bool {
	return a.vaultUnlocked
}

// CurrentVaultUnlockDate is the unlock before the latest one.
func (a *Account) CurrentVaultUnlockDate() time.Time {
	return a.currentVaultUnlockDate
}

// LastVaultUnlockDate is the time of the latest unlock.
func (a *Account) LastVaultUnlockDate(ctx context.Context) (time.Time, error) {
	return a.timestamp(ctx, "last_vault_unlock_date")
}

func (a *Account) holdMasterPassword(master string) {
	common.WipeByteArray(a.masterPassword)
	a.masterPassword = []byte(master)
}

func (a *Account) markUnlocked(ctx context.Context) error {
	prev, err := a.timestamp(ctx, "last_vault_unlock_date")
	if err != nil {
		return err
	}
	if err := a.m.db.SetItem(ctx, credentialsTable, "id", a.ID, "last_vault_unlock_date", a.m.now().UTC()); err != nil {
		return err
	}
	a.currentVaultUnlockDate = prev
	a.vaultUnlocked = true
	return nil
}
