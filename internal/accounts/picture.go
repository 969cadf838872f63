package accounts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/lightningpass/internal/filex"
	"github.com/google/uuid"
)

// ProfilePicture returns the stored picture file name.
func (a *Account) ProfilePicture(ctx context.Context) (string, error) {
	return cached[string](ctx, a, "profile_picture")
}

// ProfilePicturePath resolves the picture file name inside the pictures
// directory.
func (a *Account) ProfilePicturePath(ctx context.Context) (string, error) {
	name, err := a.ProfilePicture(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Abs(filepath.Join(a.m.picturesDir, name))
}

// SaveProfilePicture copies src into the pictures directory under a fresh
// random name that keeps the original extension, then points the account
// at it.
func (a *Account) SaveProfilePicture(ctx context.Context, src string) error {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(src))
	dst := filepath.Join(a.m.picturesDir, name)

	if err := filex.CopyFile(src, dst); err != nil {
		return fmt.Errorf("failed to save profile picture: %w", err)
	}

	if err := a.m.db.SetItem(ctx, credentialsTable, "id", a.ID, "profile_picture", name); err != nil {
		_ = os.Remove(dst)
		return err
	}
	delete(a.cache, "profile_picture")

	a.m.logger.Info(ctx, "profile picture saved", "user_id", a.ID, "file", name)
	return nil
}
