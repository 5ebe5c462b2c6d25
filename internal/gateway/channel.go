package gateway

import (
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrcord/internal/discord"
)

func (s *Shard) handleChannelCreate(env discord.Envelope) error {
	c, err := discord.NewChannel(env)
	if errors.Is(err, discord.ErrUnknownChannelType) {
		slog.Debug("ignored channel of unknown type", "shard", s.id, "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	store := s.engine.store
	switch ch := c.(type) {
	case *discord.DM:
		store.PutDM(ch)
	case *discord.GroupDM:
		store.PutGroup(ch)
	case discord.GuildChannel:
		if !ch.Type().IsGuild() {
			return nil
		}
		_, ok := store.UpdateGuild(ch.GuildID(), func(g *discord.Guild) {
			g.Channels[ch.ID()] = ch
		})
		if !ok {
			slog.Debug("announcing channel of uncached guild", "shard", s.id, "guild_id", ch.GuildID())
		}
	}

	switch ch := c.(type) {
	case *discord.GuildVoice:
		notify(s.engine.listeners, func(l VoiceChannelCreateListener) { l.OnVoiceChannelCreate(ch) })
	case *discord.GuildCategory:
		notify(s.engine.listeners, func(l CategoryCreateListener) { l.OnCategoryCreate(ch) })
	default:
		notify(s.engine.listeners, func(l ChannelCreateListener) { l.OnChannelCreate(c) })
	}
	return nil
}

func (s *Shard) handleChannelDelete(env discord.Envelope) error {
	c, err := discord.NewChannel(env)
	if errors.Is(err, discord.ErrUnknownChannelType) {
		slog.Debug("ignored channel of unknown type", "shard", s.id, "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	store := s.engine.store
	var removed discord.Channel
	switch ch := c.(type) {
	case *discord.DM:
		dm, ok := store.RemoveDM(ch.Recipient.ID)
		if !ok {
			return stale("dm with %d not cached", ch.Recipient.ID)
		}
		removed = dm
	case *discord.GroupDM:
		group, ok := store.RemoveGroup(ch.ChannelID)
		if !ok {
			return stale("group %d not cached", ch.ChannelID)
		}
		removed = group
	case discord.GuildChannel:
		if !ch.Type().IsGuild() {
			return nil
		}
		_, ok := store.UpdateGuild(ch.GuildID(), func(g *discord.Guild) {
			if cached, ok := g.Channels[ch.ID()]; ok {
				removed = cached
				delete(g.Channels, ch.ID())
			}
		})
		if !ok || removed == nil {
			return stale("channel %d of guild %d not cached", ch.ID(), ch.GuildID())
		}
	}

	switch ch := removed.(type) {
	case *discord.GuildVoice:
		notify(s.engine.listeners, func(l VoiceChannelDeleteListener) { l.OnVoiceChannelDelete(ch) })
	case *discord.GuildCategory:
		notify(s.engine.listeners, func(l CategoryDeleteListener) { l.OnCategoryDelete(ch) })
	default:
		notify(s.engine.listeners, func(l ChannelDeleteListener) { l.OnChannelDelete(removed) })
	}
	return nil
}

func (s *Shard) handleChannelUpdate(env discord.Envelope) error {
	t, err := env.Int("type")
	if err != nil {
		return err
	}
	id, err := env.Snowflake("id")
	if err != nil {
		return err
	}

	store := s.engine.store
	var updated discord.Channel
	switch kind := discord.ChannelType(t); {
	case kind == discord.ChannelTypeGroupDM:
		group, err := discord.NewGroupDM(env)
		if err != nil {
			return err
		}
		if !store.ReplaceGroup(group) {
			return stale("group %d not cached", id)
		}
		updated = group
	case kind.IsGuild():
		guildID, err := env.Snowflake("guild_id")
		if err != nil {
			return err
		}
		var updateErr error
		_, ok := store.UpdateGuild(guildID, func(g *discord.Guild) {
			updated, updateErr = updateGuildChannel(g, id, kind, env)
		})
		if !ok {
			return stale("guild %d not cached", guildID)
		}
		if updateErr != nil {
			return updateErr
		}
		if updated == nil {
			return stale("channel %d of guild %d not cached", id, guildID)
		}
	default:
		slog.Debug("ignored update of uncached channel type", "shard", s.id, "type", t)
		return nil
	}

	switch ch := updated.(type) {
	case *discord.GuildVoice:
		notify(s.engine.listeners, func(l VoiceChannelUpdateListener) { l.OnVoiceChannelUpdate(ch) })
	case *discord.GuildCategory:
		notify(s.engine.listeners, func(l CategoryUpdateListener) { l.OnCategoryUpdate(ch) })
	default:
		notify(s.engine.listeners, func(l ChannelUpdateListener) { l.OnChannelUpdate(updated) })
	}
	return nil
}

// updateGuildChannel applies env to the cached channel in place. A channel
// whose type changed is rebuilt instead.
func updateGuildChannel(
	g *discord.Guild,
	id snowflake.ID,
	kind discord.ChannelType,
	env discord.Envelope,
) (discord.Channel, error) {
	cached, ok := g.Channels[id]
	if !ok {
		return nil, nil
	}

	if u, ok := cached.(discord.Updatable); ok && cached.Type() == kind {
		if err := u.Update(env); err != nil {
			return nil, err
		}
		return cached, nil
	}

	c, err := discord.NewChannel(env)
	if err != nil {
		return nil, err
	}
	gc, ok := c.(discord.GuildChannel)
	if !ok || gc.GuildID() != g.ID {
		return nil, &discord.FieldError{Key: "guild_id", Err: discord.ErrFieldType}
	}
	g.Channels[id] = gc
	return gc, nil
}

func (s *Shard) handleChannelPinsUpdate(env discord.Envelope) error {
	channelID, err := env.Snowflake("channel_id")
	if err != nil {
		return err
	}
	lastPin, hasPin, err := env.Timestamp("last_pin_timestamp")
	if err != nil {
		return err
	}

	c, ok := s.engine.store.FindChannel(channelID)
	if !ok {
		return stale("channel %d not cached", channelID)
	}

	var at *time.Time
	if hasPin {
		at = &lastPin
	}
	notify(s.engine.listeners, func(l ChannelPinsUpdateListener) { l.OnChannelPinsUpdate(c, at) })
	return nil
}
