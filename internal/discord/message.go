package discord

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Message is a snapshot of a message. Message updates may carry only a
// subset of the fields.
type Message struct {
	ID              snowflake.ID   `json:"id"`
	ChannelID       snowflake.ID   `json:"channel_id"`
	GuildID         snowflake.ID   `json:"guild_id"`
	Content         string         `json:"content"`
	Timestamp       time.Time      `json:"timestamp"`
	EditedTimestamp *time.Time     `json:"edited_timestamp"`
	TTS             bool           `json:"tts"`
	MentionEveryone bool           `json:"mention_everyone"`
	MentionRoles    []snowflake.ID `json:"mention_roles"`
	Pinned          bool           `json:"pinned"`
	Type            int            `json:"type"`
	WebhookID       snowflake.ID   `json:"webhook_id"`
	Author          *User          `json:"-"`
	Member          *Member        `json:"-"`

	// Channel is the cached channel the message was sent to, nil when the
	// channel is not cached.
	Channel Channel `json:"-"`
}

// NewMessage builds a Message from its envelope.
func NewMessage(env Envelope) (*Message, error) {
	if _, err := env.Snowflake("id"); err != nil {
		return nil, err
	}
	if _, err := env.Snowflake("channel_id"); err != nil {
		return nil, err
	}
	msg, err := decodeInto[Message](env, "message")
	if err != nil {
		return nil, err
	}

	if env.Has("author") {
		authorEnv, err := env.Object("author")
		if err != nil {
			return nil, err
		}
		if msg.Author, err = NewUser(authorEnv); err != nil {
			return nil, err
		}
	}

	// Members attached to messages have no user: it is the author.
	if env.Has("member") && msg.Author != nil {
		memberEnv, err := env.Object("member")
		if err != nil {
			return nil, err
		}
		member, err := decodeInto[Member](memberEnv, "message member")
		if err != nil {
			return nil, err
		}
		member.User = msg.Author
		member.GuildID = msg.GuildID
		msg.Member = member
	}

	return msg, nil
}
