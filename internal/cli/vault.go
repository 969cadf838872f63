package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/vaults"
)

// Master sets or changes the master password. Existing pages are
// re-encrypted, so a vault with pages must be unlocked first.
func (a *App) Master(ctx context.Context) error {
	data, err := a.passwordData("master password")
	if err != nil {
		return err
	}
	if err := a.account.SetMasterPassword(ctx, data); err != nil {
		return err
	}
	a.println("Master password set, vault unlocked")
	return nil
}

func (a *App) Unlock(ctx context.Context) error {
	master, err := a.secret("Master password")
	if err != nil {
		return err
	}
	if err := a.account.UnlockVault(ctx, master); err != nil {
		return err
	}
	a.println("Vault unlocked. Previous unlock: " + formatDate(a.account.CurrentVaultUnlockDate()))
	return nil
}

func (a *App) Lock(ctx context.Context) error {
	a.account.LockVault()
	a.println("Vault locked")
	return nil
}

// List prints one line per vault page.
func (a *App) List(ctx context.Context) error {
	if !a.account.VaultUnlocked() {
		return common.ErrVaultLocked
	}

	n := 0
	for v, err := range a.account.VaultPages(ctx, nil) {
		if err != nil {
			return err
		}
		a.println(fmt.Sprintf("%3d  %-20s %-30s %s", v.Index, v.PlatformName, v.Website, v.Username))
		n++
	}
	if n == 0 {
		a.println("Vault is empty")
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {
	index, err := a.index("Enter page index to show")
	if err != nil {
		return err
	}
	v, err := a.account.Vault(ctx, index)
	if err != nil {
		return err
	}

	a.println("Platform:", v.PlatformName)
	a.println("Website: ", v.Website)
	a.println("Username:", v.Username)
	a.println("Email:   ", v.Email)
	a.println("Password:", string(v.Password))
	common.WipeByteArray(v.Password)
	return nil
}

// Add creates a page at the next free index.
func (a *App) Add(ctx context.Context) error {
	if !a.account.VaultUnlocked() {
		return common.ErrVaultLocked
	}
	index, err := a.account.NextVaultIndex(ctx)
	if err != nil {
		return err
	}

	v := &vaults.Vault{Index: index}
	if err := a.readPage(v); err != nil {
		return err
	}
	if err := a.account.SaveVault(ctx, v); err != nil {
		return err
	}
	a.println(fmt.Sprintf("Saved as page %d", v.Index))
	return nil
}

// Edit rewrites a page; empty answers keep the current values.
func (a *App) Edit(ctx context.Context) error {
	index, err := a.index("Enter page index to edit")
	if err != nil {
		return err
	}
	v, err := a.account.Vault(ctx, index)
	if err != nil {
		return err
	}
	if err := a.readPage(v); err != nil {
		return err
	}
	if err := a.account.SaveVault(ctx, v); err != nil {
		return err
	}
	a.println(fmt.Sprintf("Page %d updated", v.Index))
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	index, err := a.index("Enter page index to delete")
	if err != nil {
		return err
	}
	answer, err := a.text(fmt.Sprintf("Delete page %d? [y/N]", index))
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		a.println("Cancelled")
		return nil
	}
	if err := a.account.DeleteVault(ctx, index); err != nil {
		return err
	}
	a.println("Deleted")
	return nil
}

// readPage fills v from prompts. Current values are offered as defaults.
func (a *App) readPage(v *vaults.Vault) error {
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Platform name", &v.PlatformName},
		{"Website", &v.Website},
		{"Username", &v.Username},
		{"Email", &v.Email},
	}
	for _, f := range fields {
		prompt := f.prompt
		if *f.dst != "" {
			prompt += " [" + *f.dst + "]"
		}
		s, err := a.text(prompt)
		if err != nil {
			return err
		}
		*f.dst = withDefault(s, *f.dst)
	}

	prompt := "Password"
	if len(v.Password) > 0 {
		prompt += " (empty keeps current)"
	}
	pw, err := a.secret(prompt)
	if err != nil {
		return err
	}
	if pw != "" {
		common.WipeByteArray(v.Password)
		v.Password = []byte(pw)
	}
	return nil
}

func (a *App) index(prompt string) (int, error) {
	s, err := a.text(prompt)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid page index %q", s)
	}
	return i, nil
}
