package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound     = errors.New("not found")
	ErrUnknownColumn  = errors.New("unknown table or column")
	ErrUnknownDialect = errors.New("unknown database dialect")

	// validation errors
	ErrInvalidUsername     = errors.New("invalid username")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrInvalidURL          = errors.New("invalid url")
	ErrPasswordsDoNotMatch = errors.New("passwords do not match")

	// account errors
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrAccountDoesNotExist   = errors.New("account does not exist")
	ErrInvalidToken          = errors.New("invalid token")

	// vault errors
	ErrVault                 = errors.New("vault page is incomplete")
	ErrVaultLocked           = errors.New("vault is locked")
	ErrInvalidMasterPassword = errors.New("invalid master password")
	ErrDecryptionFailed      = errors.New("decryption failed")

	// generator errors
	ErrEntropyExhausted    = errors.New("entropy collection is full")
	ErrInsufficientEntropy = errors.New("not enough entropy to generate password")
	ErrInvalidOptions      = errors.New("invalid generator options")
)
