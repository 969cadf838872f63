package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/validators"
)

const dateLayout = "2006-01-02 15:04:05"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(dateLayout)
}

// Register prompts for a username, email and password (twice) and creates
// the account. The user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	username, err := a.text("Enter username")
	if err != nil {
		return err
	}
	email, err := a.text("Enter email")
	if err != nil {
		return err
	}
	password, err := a.secret("Enter password")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Repeat password")
	if err != nil {
		return err
	}

	if _, err := a.accounts.Register(ctx, username, password, confirm, email); err != nil {
		return err
	}

	a.println("Success! You can login now.")
	return nil
}

// Login authenticates the user and starts a session. Any previous session is
// closed first.
func (a *App) Login(ctx context.Context) error {
	username, err := a.text("Enter username")
	if err != nil {
		return err
	}
	password, err := a.secret("Enter password")
	if err != nil {
		return err
	}

	acc, err := a.accounts.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if a.account != nil {
		a.account.Logout()
	}
	a.account = acc

	a.println("Welcome, " + username + ". Previous login: " + formatDate(acc.CurrentLoginDate()))
	return nil
}

// Logout locks the vault and ends the session.
func (a *App) Logout(ctx context.Context) error {
	a.account.Logout()
	a.account = nil
	a.println("Logged out")
	return nil
}

// Forgot issues a password reset token for a registered email. There is no
// mail delivery; the token is shown to the user.
func (a *App) Forgot(ctx context.Context) error {
	email, err := a.text("Enter account email")
	if err != nil {
		return err
	}

	token, err := a.accounts.IssueResetToken(ctx, email)
	if err != nil {
		return err
	}

	a.println("Reset token: " + token)
	a.println("It expires in " + a.config.ResetTokenTTL.String() + ", use 'reset' to set a new password.")
	return nil
}

// Reset sets a new login password with a reset token. The token is redeemed
// only after the new password passed its checks.
func (a *App) Reset(ctx context.Context) error {
	token, err := a.text("Enter reset token")
	if err != nil {
		return err
	}
	password, err := a.secret("New password")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Repeat new password")
	if err != nil {
		return err
	}

	var pv validators.Password
	if err := validators.Run(ctx, pv.PatternCheck(password), pv.MatchCheck(password, confirm)); err != nil {
		return err
	}

	acc, err := a.accounts.RedeemResetToken(ctx, token)
	if err != nil {
		return err
	}

	if err := acc.ResetPassword(ctx, password, confirm); err != nil {
		return err
	}

	a.println("Password changed, you can login now.")
	return nil
}

// WhoAmI prints the profile of the logged in user.
func (a *App) WhoAmI(ctx context.Context) error {
	username, err := a.account.Username(ctx)
	if err != nil {
		return err
	}
	email, err := a.account.Email(ctx)
	if err != nil {
		return err
	}
	registered, err := a.account.RegisterDate(ctx)
	if err != nil {
		return err
	}
	picture, err := a.account.ProfilePicturePath(ctx)
	if err != nil {
		return err
	}
	vault := "locked"
	if a.account.VaultUnlocked() {
		vault = "unlocked"
	}

	a.println("Username:      ", username)
	a.println("Email:         ", email)
	a.println("Registered:    ", formatDate(registered))
	a.println("Previous login:", formatDate(a.account.CurrentLoginDate()))
	a.println("Vault:         ", vault)
	a.println("Picture:       ", picture)
	return nil
}
