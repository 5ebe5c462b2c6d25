package discord

import "github.com/disgoorg/snowflake/v2"

// Role is a snapshot of a guild role.
type Role struct {
	ID          snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	Color       int          `json:"color"`
	Hoist       bool         `json:"hoist"`
	Position    int          `json:"position"`
	Permissions string       `json:"permissions"`
	Managed     bool         `json:"managed"`
	Mentionable bool         `json:"mentionable"`
}

// NewRole builds a Role from its envelope.
func NewRole(env Envelope) (*Role, error) {
	if _, err := env.Snowflake("id"); err != nil {
		return nil, err
	}
	return decodeInto[Role](env, "role")
}

// Emoji is either a custom guild emoji (ID set) or a unicode emoji (ID zero).
type Emoji struct {
	ID            snowflake.ID   `json:"id"`
	Name          string         `json:"name"`
	Roles         []snowflake.ID `json:"roles"`
	RequireColons bool           `json:"require_colons"`
	Managed       bool           `json:"managed"`
	Animated      bool           `json:"animated"`
	Available     bool           `json:"available"`
}

// NewEmoji builds an Emoji from its envelope.
func NewEmoji(env Envelope) (Emoji, error) {
	e, err := decodeInto[Emoji](env, "emoji")
	if err != nil {
		return Emoji{}, err
	}
	return *e, nil
}

// IsCustom reports whether the emoji belongs to a guild.
func (e Emoji) IsCustom() bool {
	return e.ID != 0
}

// NewEmojis builds every emoji in the list.
func NewEmojis(envs []Envelope) ([]Emoji, error) {
	emojis := make([]Emoji, 0, len(envs))
	for _, env := range envs {
		e, err := NewEmoji(env)
		if err != nil {
			return nil, err
		}
		emojis = append(emojis, e)
	}
	return emojis, nil
}
