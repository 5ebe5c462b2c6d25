package discord

import (
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// ErrUnknownChannelType is returned for channel discriminants without a variant.
var ErrUnknownChannelType = errors.New("unknown channel type")

// ChannelType is the wire discriminant of a channel.
type ChannelType int

const (
	ChannelTypeGuildText          ChannelType = 0
	ChannelTypeDM                 ChannelType = 1
	ChannelTypeGuildVoice         ChannelType = 2
	ChannelTypeGroupDM            ChannelType = 3
	ChannelTypeGuildCategory      ChannelType = 4
	ChannelTypeAnnouncementThread ChannelType = 10
	ChannelTypePublicThread       ChannelType = 11
	ChannelTypePrivateThread      ChannelType = 12
)

// IsGuild reports whether channels of this type belong to a guild's channel map.
func (t ChannelType) IsGuild() bool {
	switch t {
	case ChannelTypeGuildText, ChannelTypeGuildVoice, ChannelTypeGuildCategory:
		return true
	default:
		return false
	}
}

// IsThread reports whether t is one of the thread types.
func (t ChannelType) IsThread() bool {
	return t == ChannelTypeAnnouncementThread || t == ChannelTypePublicThread ||
		t == ChannelTypePrivateThread
}

// Channel is implemented by every channel variant.
type Channel interface {
	ID() snowflake.ID
	Type() ChannelType
}

// GuildChannel is a channel owned by a guild.
type GuildChannel interface {
	Channel
	GuildID() snowflake.ID
}

// TextChannel is a channel messages can be sent to.
type TextChannel interface {
	Channel
	LastMessageID() snowflake.ID
	SetLastMessageID(id snowflake.ID)
}

// Updatable is implemented by channels that apply update events in place.
type Updatable interface {
	Update(env Envelope) error
}

// NewChannel builds the variant selected by the envelope's type.
func NewChannel(env Envelope) (Channel, error) {
	t, err := env.Int("type")
	if err != nil {
		return nil, err
	}
	if _, err := env.Snowflake("id"); err != nil {
		return nil, err
	}

	switch ChannelType(t) {
	case ChannelTypeGuildText:
		c, err := decodeInto[GuildText](env, "text channel")
		return channelOrErr(c, err)
	case ChannelTypeDM:
		c, err := NewDM(env)
		return channelOrErr(c, err)
	case ChannelTypeGuildVoice:
		c, err := decodeInto[GuildVoice](env, "voice channel")
		return channelOrErr(c, err)
	case ChannelTypeGroupDM:
		c, err := NewGroupDM(env)
		return channelOrErr(c, err)
	case ChannelTypeGuildCategory:
		c, err := decodeInto[GuildCategory](env, "category")
		return channelOrErr(c, err)
	case ChannelTypeAnnouncementThread, ChannelTypePublicThread, ChannelTypePrivateThread:
		c, err := NewThreadChannel(env)
		return channelOrErr(c, err)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownChannelType, t)
	}
}

// channelOrErr avoids returning a typed nil pointer inside a Channel.
func channelOrErr[C Channel](c C, err error) (Channel, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GuildText is a guild text channel.
type GuildText struct {
	ChannelID        snowflake.ID `json:"id"`
	Guild            snowflake.ID `json:"guild_id"`
	Name             string       `json:"name"`
	Topic            string       `json:"topic"`
	Position         int          `json:"position"`
	NSFW             bool         `json:"nsfw"`
	ParentID         snowflake.ID `json:"parent_id"`
	LastMessage      snowflake.ID `json:"last_message_id"`
	RateLimitPerUser int          `json:"rate_limit_per_user"`
}

func (c *GuildText) ID() snowflake.ID                 { return c.ChannelID }
func (c *GuildText) Type() ChannelType                { return ChannelTypeGuildText }
func (c *GuildText) GuildID() snowflake.ID            { return c.Guild }
func (c *GuildText) LastMessageID() snowflake.ID      { return c.LastMessage }
func (c *GuildText) SetLastMessageID(id snowflake.ID) { c.LastMessage = id }

// Update applies a channel update in place.
func (c *GuildText) Update(env Envelope) error {
	return updateInPlace(c, env, "text channel")
}

// GuildVoice is a guild voice channel.
type GuildVoice struct {
	ChannelID snowflake.ID `json:"id"`
	Guild     snowflake.ID `json:"guild_id"`
	Name      string       `json:"name"`
	Position  int          `json:"position"`
	Bitrate   int          `json:"bitrate"`
	UserLimit int          `json:"user_limit"`
	ParentID  snowflake.ID `json:"parent_id"`
	RTCRegion string       `json:"rtc_region"`
}

func (c *GuildVoice) ID() snowflake.ID      { return c.ChannelID }
func (c *GuildVoice) Type() ChannelType     { return ChannelTypeGuildVoice }
func (c *GuildVoice) GuildID() snowflake.ID { return c.Guild }

// Update applies a channel update in place.
func (c *GuildVoice) Update(env Envelope) error {
	return updateInPlace(c, env, "voice channel")
}

// GuildCategory groups guild channels.
type GuildCategory struct {
	ChannelID snowflake.ID `json:"id"`
	Guild     snowflake.ID `json:"guild_id"`
	Name      string       `json:"name"`
	Position  int          `json:"position"`
}

func (c *GuildCategory) ID() snowflake.ID      { return c.ChannelID }
func (c *GuildCategory) Type() ChannelType     { return ChannelTypeGuildCategory }
func (c *GuildCategory) GuildID() snowflake.ID { return c.Guild }

// Update applies a channel update in place.
func (c *GuildCategory) Update(env Envelope) error {
	return updateInPlace(c, env, "category")
}

// DM is a private channel with a single recipient.
type DM struct {
	ChannelID   snowflake.ID `json:"id"`
	LastMessage snowflake.ID `json:"last_message_id"`
	Recipient   *User        `json:"-"`
}

// NewDM builds a DM. The recipient is required: the cache keys DMs by it.
func NewDM(env Envelope) (*DM, error) {
	recipients, err := env.Objects("recipients")
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, &FieldError{Key: "recipients", Err: ErrMissingField}
	}
	recipient, err := NewUser(recipients[0])
	if err != nil {
		return nil, err
	}
	dm, err := decodeInto[DM](env, "dm")
	if err != nil {
		return nil, err
	}
	dm.Recipient = recipient
	return dm, nil
}

func (c *DM) ID() snowflake.ID                 { return c.ChannelID }
func (c *DM) Type() ChannelType                { return ChannelTypeDM }
func (c *DM) LastMessageID() snowflake.ID      { return c.LastMessage }
func (c *DM) SetLastMessageID(id snowflake.ID) { c.LastMessage = id }

// GroupDM is a private channel with several recipients.
type GroupDM struct {
	ChannelID   snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	Icon        string       `json:"icon"`
	OwnerID     snowflake.ID `json:"owner_id"`
	LastMessage snowflake.ID `json:"last_message_id"`
	Recipients  []*User      `json:"-"`
}

// NewGroupDM builds a GroupDM.
func NewGroupDM(env Envelope) (*GroupDM, error) {
	group, err := decodeInto[GroupDM](env, "group dm")
	if err != nil {
		return nil, err
	}
	recipients, err := env.OptionalObjects("recipients")
	if err != nil {
		return nil, err
	}
	for _, r := range recipients {
		user, err := NewUser(r)
		if err != nil {
			return nil, err
		}
		group.Recipients = append(group.Recipients, user)
	}
	return group, nil
}

func (c *GroupDM) ID() snowflake.ID                 { return c.ChannelID }
func (c *GroupDM) Type() ChannelType                { return ChannelTypeGroupDM }
func (c *GroupDM) LastMessageID() snowflake.ID      { return c.LastMessage }
func (c *GroupDM) SetLastMessageID(id snowflake.ID) { c.LastMessage = id }

// Update applies a channel update in place.
func (c *GroupDM) Update(env Envelope) error {
	updated, err := NewGroupDM(env)
	if err != nil {
		return err
	}
	if updated.ChannelID != c.ChannelID {
		return &FieldError{Key: "id", Err: ErrFieldType}
	}
	*c = *updated
	return nil
}

// ThreadMetadata holds the archive state of a thread.
type ThreadMetadata struct {
	Archived            bool `json:"archived"`
	AutoArchiveDuration int  `json:"auto_archive_duration"`
	Locked              bool `json:"locked"`
	Invitable           bool `json:"invitable"`
}

// ThreadChannel is a thread. Threads are announced but never cached.
type ThreadChannel struct {
	ChannelID     snowflake.ID   `json:"id"`
	Kind          ChannelType    `json:"type"`
	Guild         snowflake.ID   `json:"guild_id"`
	ParentID      snowflake.ID   `json:"parent_id"`
	OwnerID       snowflake.ID   `json:"owner_id"`
	Name          string         `json:"name"`
	LastMessage   snowflake.ID   `json:"last_message_id"`
	MessageCount  int            `json:"message_count"`
	MemberCount   int            `json:"member_count"`
	Metadata      ThreadMetadata `json:"thread_metadata"`
	RateLimitUser int            `json:"rate_limit_per_user"`
}

// NewThreadChannel builds a ThreadChannel.
func NewThreadChannel(env Envelope) (*ThreadChannel, error) {
	if _, err := env.Snowflake("id"); err != nil {
		return nil, err
	}
	return decodeInto[ThreadChannel](env, "thread")
}

func (c *ThreadChannel) ID() snowflake.ID                 { return c.ChannelID }
func (c *ThreadChannel) Type() ChannelType                { return c.Kind }
func (c *ThreadChannel) GuildID() snowflake.ID            { return c.Guild }
func (c *ThreadChannel) LastMessageID() snowflake.ID      { return c.LastMessage }
func (c *ThreadChannel) SetLastMessageID(id snowflake.ID) { c.LastMessage = id }

// updateInPlace decodes env over an existing guild channel. The channel's
// identity is never changed by an update.
func updateInPlace[T interface {
	GuildChannel
	*U
}, U any](c T, env Envelope, kind string) error {
	id, err := env.Snowflake("id")
	if err != nil {
		return err
	}
	if id != c.ID() {
		return &FieldError{Key: "id", Err: ErrFieldType}
	}
	guildID := c.GuildID()

	updated := *c
	if err := env.Decode(&updated); err != nil {
		return fmt.Errorf("failed to update %s: %w", kind, err)
	}
	if T(&updated).GuildID() != guildID {
		return &FieldError{Key: "guild_id", Err: ErrFieldType}
	}
	*c = updated
	return nil
}

var (
	_ TextChannel  = (*GuildText)(nil)
	_ GuildChannel = (*GuildVoice)(nil)
	_ GuildChannel = (*GuildCategory)(nil)
	_ TextChannel  = (*DM)(nil)
	_ TextChannel  = (*GroupDM)(nil)
	_ GuildChannel = (*ThreadChannel)(nil)
	_ Updatable    = (*GuildText)(nil)
	_ Updatable    = (*GuildVoice)(nil)
	_ Updatable    = (*GuildCategory)(nil)
	_ Updatable    = (*GroupDM)(nil)
)
