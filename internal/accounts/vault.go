package accounts

import (
	"context"
	"iter"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/cryptox"
	"github.com/dmitrijs2005/lightningpass/internal/vaults"
)

// EncryptVaultPassword seals password under the current master key.
func (a *Account) EncryptVaultPassword(ctx context.Context, password []byte) ([]byte, error) {
	key, ok, err := a.MasterKey(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrVaultLocked
	}
	defer common.WipeByteArray(key)
	return cryptox.Encrypt(password, key)
}

// DecryptVaultPassword opens ciphertext with key, or with the current master
// key when key is nil.
func (a *Account) DecryptVaultPassword(ctx context.Context, ciphertext, key []byte) ([]byte, error) {
	if key != nil {
		return cryptox.Decrypt(ciphertext, key)
	}

	key, ok, err := a.MasterKey(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrVaultLocked
	}
	defer common.WipeByteArray(key)
	return cryptox.Decrypt(ciphertext, key)
}

// VaultPages yields the account's pages in index order with decrypted
// passwords. The store is queried again on every range. With no pages
// nothing is yielded; otherwise a missing key or a failed decryption is
// yielded once as an error and the sequence stops.
func (a *Account) VaultPages(ctx context.Context, key []byte) iter.Seq2[vaults.Vault, error] {
	return func(yield func(vaults.Vault, error) bool) {
		pages, err := a.m.vaults.List(ctx, a.ID)
		if err != nil {
			yield(vaults.Vault{}, err)
			return
		}
		if len(pages) == 0 {
			return
		}

		k := key
		if k == nil {
			mk, ok, err := a.MasterKey(ctx)
			if err != nil {
				yield(vaults.Vault{}, err)
				return
			}
			if !ok {
				yield(vaults.Vault{}, common.ErrVaultLocked)
				return
			}
			defer common.WipeByteArray(mk)
			k = mk
		}

		for _, p := range pages {
			plain, err := cryptox.Decrypt(p.Password, k)
			if err != nil {
				yield(vaults.Vault{}, err)
				return
			}
			p.Password = plain
			if !yield(p, nil) {
				return
			}
		}
	}
}

// Vault returns the decrypted page at index.
func (a *Account) Vault(ctx context.Context, index int) (*vaults.Vault, error) {
	v, err := a.m.vaults.Get(ctx, a.ID, index)
	if err != nil {
		return nil, err
	}
	plain, err := a.DecryptVaultPassword(ctx, v.Password, nil)
	if err != nil {
		return nil, err
	}
	v.Password = plain
	return v, nil
}

// SaveVault encrypts the plaintext page and writes it at page.Index. The
// website of page is replaced by its canonical form; its password is left
// as plaintext.
func (a *Account) SaveVault(ctx context.Context, page *vaults.Vault) error {
	page.UserID = a.ID
	if err := vaults.Validate(page); err != nil {
		return err
	}

	ct, err := a.EncryptVaultPassword(ctx, page.Password)
	if err != nil {
		return err
	}

	sealed := *page
	sealed.Password = ct
	if err := a.m.vaults.Upsert(ctx, &sealed); err != nil {
		return err
	}
	a.m.logger.Info(ctx, "vault saved", "user_id", a.ID, "index", page.Index)
	return nil
}

// DeleteVault removes the page at index; later pages move down by one.
func (a *Account) DeleteVault(ctx context.Context, index int) error {
	if err := a.m.vaults.Delete(ctx, a.ID, index); err != nil {
		return err
	}
	a.m.logger.Info(ctx, "vault deleted", "user_id", a.ID, "index", index)
	return nil
}

// NextVaultIndex is the index a new page should be saved at.
func (a *Account) NextVaultIndex(ctx context.Context) (int, error) {
	return a.m.vaults.Count(ctx, a.ID)
}
