package discord

import "github.com/disgoorg/snowflake/v2"

// User is a snapshot of an account.
type User struct {
	ID            snowflake.ID `json:"id"`
	Username      string       `json:"username"`
	GlobalName    string       `json:"global_name"`
	Discriminator string       `json:"discriminator"`
	Avatar        string       `json:"avatar"`
	Bot           bool         `json:"bot"`
	System        bool         `json:"system"`
	MFAEnabled    bool         `json:"mfa_enabled"`
	Verified      bool         `json:"verified"`
	Email         string       `json:"email"`
	Locale        string       `json:"locale"`
	Flags         int          `json:"flags"`
	PublicFlags   int          `json:"public_flags"`
	PremiumType   int          `json:"premium_type"`
}

// NewUser builds a User from its envelope.
func NewUser(env Envelope) (*User, error) {
	if _, err := env.Snowflake("id"); err != nil {
		return nil, err
	}
	return decodeInto[User](env, "user")
}

// DisplayName returns the global name when set, the username otherwise.
func (u *User) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
