package model

const IdentityProviderCal = "CAL"

type User struct {
	ID               string `json:"id" bson:"_id"`
	Email            string `json:"email" bson:"email"`
	Password         string `json:"-" bson:"password"`
	IdentityProvider string `json:"identity_provider" bson:"identity_provider"`
	TwoFactorEnabled bool   `json:"two_factor_enabled" bson:"two_factor_enabled"`
	TwoFactorSecret  string `json:"-" bson:"two_factor_secret,omitempty"`
}

// UsesLocalCredentials reports whether the password is managed here rather
// than by an external identity provider. An empty provider counts as local.
func (u *User) UsesLocalCredentials() bool {
	return u.IdentityProvider == "" || u.IdentityProvider == IdentityProviderCal
}
