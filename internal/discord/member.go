package discord

import (
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Member is a user's membership in a guild.
type Member struct {
	User     *User          `json:"-"`
	GuildID  snowflake.ID   `json:"-"`
	Nick     string         `json:"nick"`
	Avatar   string         `json:"avatar"`
	Roles    []snowflake.ID `json:"roles"`
	JoinedAt time.Time      `json:"joined_at"`
	Deaf     bool           `json:"deaf"`
	Mute     bool           `json:"mute"`
	Pending  bool           `json:"pending"`

	// Presence is only tracked when every member is cached.
	Presence *Presence `json:"-"`
	// VoiceState always mirrors the owning guild's VoiceStates entry.
	VoiceState *VoiceState `json:"-"`
}

// NewMember builds a Member of guildID from its envelope.
func NewMember(env Envelope, guildID snowflake.ID) (*Member, error) {
	userEnv, err := env.Object("user")
	if err != nil {
		return nil, err
	}
	user, err := NewUser(userEnv)
	if err != nil {
		return nil, err
	}
	m, err := decodeInto[Member](env, "member")
	if err != nil {
		return nil, err
	}
	m.User = user
	m.GuildID = guildID
	return m, nil
}

// ID returns the member's user id.
func (m *Member) ID() snowflake.ID {
	return m.User.ID
}

// DisplayName returns the nickname when set, the user's display name otherwise.
func (m *Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.DisplayName()
}

// HasRole reports whether the member has roleID.
func (m *Member) HasRole(roleID snowflake.ID) bool {
	return slices.Contains(m.Roles, roleID)
}
