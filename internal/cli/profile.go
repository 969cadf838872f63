package cli

import (
	"context"

	"github.com/dmitrijs2005/lightningpass/internal/accounts"
)

func (a *App) ChangeUsername(ctx context.Context) error {
	username, err := a.text("New username")
	if err != nil {
		return err
	}
	if err := a.account.SetUsername(ctx, username); err != nil {
		return err
	}
	a.println("Username changed")
	return nil
}

func (a *App) ChangeEmail(ctx context.Context) error {
	email, err := a.text("New email")
	if err != nil {
		return err
	}
	if err := a.account.SetEmail(ctx, email); err != nil {
		return err
	}
	a.println("Email changed")
	return nil
}

// ChangePassword changes the login password.
func (a *App) ChangePassword(ctx context.Context) error {
	data, err := a.passwordData("password")
	if err != nil {
		return err
	}
	if err := a.account.ChangePassword(ctx, data); err != nil {
		return err
	}
	a.println("Password changed")
	return nil
}

// Picture copies an image file into the pictures directory and makes it the
// profile picture.
func (a *App) Picture(ctx context.Context) error {
	path, err := a.text("Path to picture file")
	if err != nil {
		return err
	}
	if err := a.account.SaveProfilePicture(ctx, path); err != nil {
		return err
	}

	saved, err := a.account.ProfilePicturePath(ctx)
	if err != nil {
		return err
	}
	a.println("Picture saved to " + saved)
	return nil
}

// passwordData asks for the current login password twice and the new
// password, called what, twice.
func (a *App) passwordData(what string) (accounts.PasswordData, error) {
	var (
		d   accounts.PasswordData
		err error
	)
	if d.Previous, err = a.secret("Current login password"); err != nil {
		return d, err
	}
	if d.ConfirmPrevious, err = a.secret("Repeat current login password"); err != nil {
		return d, err
	}
	if d.New, err = a.secret("New " + what); err != nil {
		return d, err
	}
	if d.ConfirmNew, err = a.secret("Repeat new " + what); err != nil {
		return d, err
	}
	return d, nil
}
