package errors

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	ErrThirdPartyIdentityProvider = errors.New("user signs in through a third-party identity provider")

	ErrMissingPassword = errors.New("user has no password set")

	ErrAlreadyEnabled = errors.New("two-factor authentication is already enabled")

	ErrIncorrectPassword = errors.New("incorrect password")

	ErrEncryptionKeyMissing = errors.New("encryption key is not configured")
)

// Codes returned to clients in the error message field.
const (
	CodeThirdPartyIdentityProvider = "thirdPartyIdentityProviderEnabled"
	CodeMissingPassword            = "userMissingPassword"
	CodeAlreadyEnabled             = "twoFactorAlreadyEnabled"
	CodeIncorrectPassword          = "incorrectPassword"
)
