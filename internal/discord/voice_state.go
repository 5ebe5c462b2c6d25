package discord

import "github.com/disgoorg/snowflake/v2"

// VoiceState is a snapshot of a user's voice connection within a guild.
type VoiceState struct {
	GuildID    snowflake.ID `json:"guild_id"`
	ChannelID  snowflake.ID `json:"channel_id"`
	UserID     snowflake.ID `json:"user_id"`
	SessionID  string       `json:"session_id"`
	Deaf       bool         `json:"deaf"`
	Mute       bool         `json:"mute"`
	SelfDeaf   bool         `json:"self_deaf"`
	SelfMute   bool         `json:"self_mute"`
	SelfStream bool         `json:"self_stream"`
	SelfVideo  bool         `json:"self_video"`
	Suppress   bool         `json:"suppress"`
}

// NewVoiceState builds a VoiceState from its envelope.
func NewVoiceState(env Envelope) (*VoiceState, error) {
	if _, err := env.Snowflake("user_id"); err != nil {
		return nil, err
	}
	return decodeInto[VoiceState](env, "voice state")
}
