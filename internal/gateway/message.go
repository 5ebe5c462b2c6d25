package gateway

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrcord/internal/discord"
)

func (s *Shard) handleMessageCreate(env discord.Envelope) error {
	msg, err := discord.NewMessage(env)
	if err != nil {
		return err
	}

	c, ok := s.engine.store.UpdateChannel(msg.ChannelID, func(c discord.Channel) {
		if tc, ok := c.(discord.TextChannel); ok {
			tc.SetLastMessageID(msg.ID)
		}
	})
	if ok {
		msg.Channel = c
	}

	notify(s.engine.listeners, func(l MessageCreateListener) { l.OnMessageCreate(msg) })
	return nil
}

func (s *Shard) handleMessageUpdate(env discord.Envelope) error {
	msg, err := discord.NewMessage(env)
	if err != nil {
		return err
	}
	if c, ok := s.engine.store.FindChannel(msg.ChannelID); ok {
		msg.Channel = c
	}

	notify(s.engine.listeners, func(l MessageUpdateListener) { l.OnMessageUpdate(msg) })
	return nil
}

func (s *Shard) handleMessageDelete(env discord.Envelope) error {
	messageID, err := env.Snowflake("id")
	if err != nil {
		return err
	}
	c, err := s.channel(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l MessageDeleteListener) { l.OnMessageDelete(messageID, c) })
	return nil
}

func (s *Shard) handleMessageDeleteBulk(env discord.Envelope) error {
	messageIDs, err := env.Snowflakes("ids")
	if err != nil {
		return err
	}
	c, err := s.channel(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l MessageBulkDeleteListener) { l.OnMessageBulkDelete(messageIDs, c) })
	return nil
}

func (s *Shard) handleMessageReactionAdd(env discord.Envelope) error {
	r, err := s.reaction(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l MessageReactionAddListener) {
		l.OnMessageReactionAdd(r.channel, r.messageID, r.userID, r.emoji)
	})
	return nil
}

func (s *Shard) handleMessageReactionRemove(env discord.Envelope) error {
	r, err := s.reaction(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l MessageReactionRemoveListener) {
		l.OnMessageReactionRemove(r.channel, r.messageID, r.userID, r.emoji)
	})
	return nil
}

func (s *Shard) handleMessageReactionRemoveAll(env discord.Envelope) error {
	messageID, err := env.Snowflake("message_id")
	if err != nil {
		return err
	}
	c, err := s.channel(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l MessageReactionRemoveAllListener) { l.OnMessageReactionRemoveAll(messageID, c) })
	return nil
}

type reaction struct {
	channel   discord.Channel
	messageID snowflake.ID
	userID    snowflake.ID
	emoji     discord.Emoji
}

func (s *Shard) reaction(env discord.Envelope) (reaction, error) {
	messageID, err := env.Snowflake("message_id")
	if err != nil {
		return reaction{}, err
	}
	userID, err := env.Snowflake("user_id")
	if err != nil {
		return reaction{}, err
	}
	emojiEnv, err := env.Object("emoji")
	if err != nil {
		return reaction{}, err
	}
	emoji, err := discord.NewEmoji(emojiEnv)
	if err != nil {
		return reaction{}, err
	}
	c, err := s.channel(env)
	if err != nil {
		return reaction{}, err
	}
	return reaction{channel: c, messageID: messageID, userID: userID, emoji: emoji}, nil
}

// channel resolves the channel_id of env against every cached channel.
func (s *Shard) channel(env discord.Envelope) (discord.Channel, error) {
	channelID, err := env.Snowflake("channel_id")
	if err != nil {
		return nil, err
	}
	c, ok := s.engine.store.FindChannel(channelID)
	if !ok {
		return nil, stale("channel %d not cached", channelID)
	}
	return c, nil
}
