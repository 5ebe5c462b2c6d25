package discord

import (
	"errors"
	"fmt"
	"maps"

	"github.com/disgoorg/snowflake/v2"
)

// UnavailableGuild is a guild whose data has not arrived yet or was
// temporarily dropped by an outage.
type UnavailableGuild struct {
	ID      snowflake.ID
	ShardID int
}

// NewUnavailableGuild builds an UnavailableGuild served by shardID.
func NewUnavailableGuild(env Envelope, shardID int) (*UnavailableGuild, error) {
	id, err := env.Snowflake("id")
	if err != nil {
		return nil, err
	}
	return &UnavailableGuild{ID: id, ShardID: shardID}, nil
}

// Guild is a cached guild. All maps are keyed by the entity's id; members
// and voice states by user id.
type Guild struct {
	ID                snowflake.ID `json:"id"`
	Name              string       `json:"name"`
	Icon              string       `json:"icon"`
	OwnerID           snowflake.ID `json:"owner_id"`
	AFKChannelID      snowflake.ID `json:"afk_channel_id"`
	AFKTimeout        int          `json:"afk_timeout"`
	VerificationLevel int          `json:"verification_level"`
	MemberCount       int          `json:"member_count"`
	Large             bool         `json:"large"`
	Description       string       `json:"description"`
	PreferredLocale   string       `json:"preferred_locale"`
	ShardID           int          `json:"-"`

	Channels    map[snowflake.ID]GuildChannel `json:"-"`
	Members     map[snowflake.ID]*Member      `json:"-"`
	Roles       map[snowflake.ID]*Role        `json:"-"`
	Emojis      []Emoji                       `json:"-"`
	VoiceStates map[snowflake.ID]*VoiceState  `json:"-"`
}

// NewGuild builds a Guild, with its channels, members, roles, emojis, voice
// states and presences, from a guild create envelope.
func NewGuild(env Envelope, shardID int) (*Guild, error) {
	if _, err := env.Snowflake("id"); err != nil {
		return nil, err
	}
	g, err := decodeInto[Guild](env, "guild")
	if err != nil {
		return nil, err
	}
	g.ShardID = shardID
	g.Channels = make(map[snowflake.ID]GuildChannel)
	g.Members = make(map[snowflake.ID]*Member)
	g.Roles = make(map[snowflake.ID]*Role)
	g.VoiceStates = make(map[snowflake.ID]*VoiceState)

	channels, err := env.OptionalObjects("channels")
	if err != nil {
		return nil, err
	}
	for _, c := range channels {
		// Channels nested in a guild carry no guild_id.
		c = maps.Clone(c)
		c["guild_id"] = g.ID.String()
		ch, err := NewChannel(c)
		if errors.Is(err, ErrUnknownChannelType) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode guild channel: %w", err)
		}
		if gc, ok := ch.(GuildChannel); ok && ch.Type().IsGuild() {
			g.Channels[gc.ID()] = gc
		}
	}

	members, err := env.OptionalObjects("members")
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		member, err := NewMember(m, g.ID)
		if err != nil {
			return nil, err
		}
		g.Members[member.ID()] = member
	}

	if err := g.setRoles(env); err != nil {
		return nil, err
	}
	if err := g.setEmojis(env); err != nil {
		return nil, err
	}

	voiceStates, err := env.OptionalObjects("voice_states")
	if err != nil {
		return nil, err
	}
	for _, v := range voiceStates {
		vs, err := NewVoiceState(v)
		if err != nil {
			return nil, err
		}
		vs.GuildID = g.ID
		g.SetVoiceState(vs)
	}

	presences, err := env.OptionalObjects("presences")
	if err != nil {
		return nil, err
	}
	for _, p := range presences {
		presence, err := NewPresence(p)
		if err != nil {
			return nil, err
		}
		presence.GuildID = g.ID
		if member, ok := g.Members[presence.UserID]; ok {
			member.Presence = presence
		}
	}

	return g, nil
}

// Update applies a guild update envelope in place. Roles and emojis are
// replaced when present.
func (g *Guild) Update(env Envelope) error {
	id, err := env.Snowflake("id")
	if err != nil {
		return err
	}
	if id != g.ID {
		return &FieldError{Key: "id", Err: ErrFieldType}
	}

	updated := *g
	if err := env.Decode(&updated); err != nil {
		return fmt.Errorf("failed to update guild: %w", err)
	}
	if env.Has("roles") {
		if err := updated.setRoles(env); err != nil {
			return err
		}
	}
	if env.Has("emojis") {
		if err := updated.setEmojis(env); err != nil {
			return err
		}
	}
	*g = updated
	return nil
}

func (g *Guild) setRoles(env Envelope) error {
	roles, err := env.OptionalObjects("roles")
	if err != nil {
		return err
	}
	g.Roles = make(map[snowflake.ID]*Role, len(roles))
	for _, r := range roles {
		role, err := NewRole(r)
		if err != nil {
			return err
		}
		g.Roles[role.ID] = role
	}
	return nil
}

func (g *Guild) setEmojis(env Envelope) error {
	envs, err := env.OptionalObjects("emojis")
	if err != nil {
		return err
	}
	emojis, err := NewEmojis(envs)
	if err != nil {
		return err
	}
	g.Emojis = emojis
	return nil
}

// PutMember inserts or replaces a member. The member inherits the voice
// state already recorded for its user so both sides stay mirrored, and the
// presence of the member it replaces.
func (g *Guild) PutMember(m *Member) {
	m.VoiceState = g.VoiceStates[m.ID()]
	if old, ok := g.Members[m.ID()]; ok && m.Presence == nil {
		m.Presence = old.Presence
	}
	g.Members[m.ID()] = m
}

// RemoveMember erases a member together with its voice state.
func (g *Guild) RemoveMember(userID snowflake.ID) (*Member, bool) {
	m, ok := g.Members[userID]
	delete(g.Members, userID)
	delete(g.VoiceStates, userID)
	return m, ok
}

// SetVoiceState records vs for its user on both the guild and the member.
// Voice states are only kept for cached members; it reports whether vs was
// stored.
func (g *Guild) SetVoiceState(vs *VoiceState) bool {
	m, ok := g.Members[vs.UserID]
	if !ok {
		return false
	}
	g.VoiceStates[vs.UserID] = vs
	m.VoiceState = vs
	return true
}

// ClearVoiceState removes the voice state of userID from the guild and the member.
func (g *Guild) ClearVoiceState(userID snowflake.ID) {
	delete(g.VoiceStates, userID)
	if m, ok := g.Members[userID]; ok {
		m.VoiceState = nil
	}
}
