package cli

import (
	"errors"

	"github.com/dmitrijs2005/lightningpass/internal/common"
)

var messages = []struct {
	err error
	msg string
}{
	{common.ErrInvalidUsername, "Username must be at least 5 letters, digits or underscores."},
	{common.ErrInvalidPassword, "Password must be at least 8 characters with lower and upper case letters, a digit and a symbol."},
	{common.ErrInvalidEmail, "Email address is not valid."},
	{common.ErrInvalidURL, "Website is not a valid http(s) address."},
	{common.ErrUsernameAlreadyExists, "This username is already taken."},
	{common.ErrEmailAlreadyExists, "This email is already registered."},
	{common.ErrPasswordsDoNotMatch, "Passwords do not match."},
	{common.ErrAccountDoesNotExist, "Invalid username or password."},
	{common.ErrInvalidToken, "Reset token is invalid or expired."},
	{common.ErrVault, "Platform, username and password are required."},
	{common.ErrVaultLocked, "Vault is locked, use 'unlock' first."},
	{common.ErrInvalidMasterPassword, "Invalid master password."},
	{common.ErrDecryptionFailed, "Vault data could not be decrypted."},
	{common.ErrorNotFound, "No such vault page."},
	{common.ErrEntropyExhausted, "Entropy pool is full."},
	{common.ErrInsufficientEntropy, "Not enough positions to finish the password."},
}

// describe turns err into the message shown to the user. Errors without a
// dedicated message are shown as is.
func describe(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}
