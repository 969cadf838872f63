// Package common contains shared constants, sentinel errors and small
// helpers used across lightningpass components.
package common

// DefaultProfilePicture is the picture file name assigned to new accounts.
const DefaultProfilePicture = "default.png"

// SaltSize is the length in bytes of the per-account master key salt.
const SaltSize = 16
