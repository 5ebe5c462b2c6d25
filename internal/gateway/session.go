package gateway

import (
	"log/slog"
	"time"

	"github.com/sglre6355/sgrcord/internal/discord"
)

func (s *Shard) handleReady(env discord.Envelope) error {
	sessionID, err := env.String("session_id")
	if err != nil {
		return err
	}
	userEnv, err := env.Object("user")
	if err != nil {
		return err
	}
	self, err := discord.NewUser(userEnv)
	if err != nil {
		return err
	}
	guildEnvs, err := env.OptionalObjects("guilds")
	if err != nil {
		return err
	}
	guilds := make([]*discord.UnavailableGuild, 0, len(guildEnvs))
	for _, ge := range guildEnvs {
		g, err := discord.NewUnavailableGuild(ge, s.id)
		if err != nil {
			return err
		}
		guilds = append(guilds, g)
	}

	store := s.engine.store
	store.SetReadyAt(time.Now())
	s.setSessionID(sessionID)
	for _, g := range guilds {
		store.PutUnavailableGuild(g)
	}
	s.engine.observeGuilds()
	readyShards, allReady := store.MarkShardReady(s.id, s.engine.shardCount)

	slog.Info("shard ready",
		"shard", s.id,
		"guilds", len(guilds),
		"ready_shards", readyShards,
		"shard_count", s.engine.shardCount,
	)
	notify(s.engine.listeners, func(l ShardReadyListener) { l.OnShardReady(s.id) })

	if allReady {
		store.SetUser(self)
		slog.Info("all shards ready", "user_id", self.ID, "username", self.Username)
		notify(s.engine.listeners, func(l ReadyListener) { l.OnReady(self) })
	}
	return nil
}

func (s *Shard) handleResumed(discord.Envelope) error {
	slog.Info("resumed session", "shard", s.id, "session_id", s.SessionID())
	return nil
}

func (s *Shard) handleUserUpdate(env discord.Envelope) error {
	u, err := discord.NewUser(env)
	if err != nil {
		return err
	}
	if s.engine.store.ReplaceUser(u) {
		slog.Debug("updated bot user", "user_id", u.ID)
	}
	notify(s.engine.listeners, func(l UserUpdateListener) { l.OnUserUpdate(u) })
	return nil
}

func (s *Shard) handlePresenceUpdate(env discord.Envelope) error {
	guildID, err := env.Snowflake("guild_id")
	if err != nil {
		return err
	}
	p, err := discord.NewPresence(env)
	if err != nil {
		return err
	}

	store := s.engine.store
	if !s.engine.cacheAllMembers {
		// Only offline presences act here: they evict the member.
		if p.Status != discord.StatusOffline {
			return nil
		}
		if _, ok := store.UpdateGuild(guildID, func(g *discord.Guild) {
			g.RemoveMember(p.UserID)
		}); !ok {
			return stale("guild %d not cached", guildID)
		}
		return nil
	}

	var member *discord.Member
	_, ok := store.UpdateGuild(guildID, func(g *discord.Guild) {
		if m, ok := g.Members[p.UserID]; ok {
			m.Presence = p
			member = m
		}
	})
	if !ok {
		return stale("guild %d not cached", guildID)
	}

	notify(s.engine.listeners, func(l PresenceUpdateListener) { l.OnPresenceUpdate(member, p) })
	return nil
}

func (s *Shard) handleTypingStart(env discord.Envelope) error {
	userID, err := env.Snowflake("user_id")
	if err != nil {
		return err
	}
	at, err := env.UnixTime("timestamp")
	if err != nil {
		return err
	}
	c, err := s.channel(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l TypingStartListener) { l.OnTypingStart(c, userID, at) })
	return nil
}

func (s *Shard) handleVoiceStateUpdate(env discord.Envelope) error {
	guildID, err := env.Snowflake("guild_id")
	if err != nil {
		return err
	}
	userID, err := env.Snowflake("user_id")
	if err != nil {
		return err
	}

	store := s.engine.store
	if !env.Has("channel_id") {
		g, ok := store.UpdateGuild(guildID, func(g *discord.Guild) {
			g.ClearVoiceState(userID)
		})
		if !ok {
			return stale("guild %d not cached", guildID)
		}
		notify(s.engine.listeners, func(l VoiceChannelLeaveListener) { l.OnVoiceChannelLeave(g, userID) })
		return nil
	}

	vs, err := discord.NewVoiceState(env)
	if err != nil {
		return err
	}
	vs.GuildID = guildID
	var member *discord.Member
	if env.Has("member") {
		memberEnv, err := env.Object("member")
		if err != nil {
			return err
		}
		if member, err = discord.NewMember(memberEnv, guildID); err != nil {
			return err
		}
	}

	stored := false
	g, ok := store.UpdateGuild(guildID, func(g *discord.Guild) {
		if _, cached := g.Members[userID]; !cached && member != nil && member.ID() == userID {
			g.PutMember(member)
		}
		stored = g.SetVoiceState(vs)
	})
	if !ok {
		return stale("guild %d not cached", guildID)
	}
	if !stored {
		slog.Debug("voice state of uncached member not kept", "shard", s.id, "guild_id", guildID, "user_id", userID)
	}

	notify(s.engine.listeners, func(l VoiceChannelJoinListener) { l.OnVoiceChannelJoin(g, vs) })
	return nil
}

func (s *Shard) handleThreadCreate(env discord.Envelope) error {
	t, err := discord.NewThreadChannel(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l ThreadCreateListener) { l.OnThreadCreate(t) })
	return nil
}

func (s *Shard) handleThreadUpdate(env discord.Envelope) error {
	t, err := discord.NewThreadChannel(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l ThreadUpdateListener) { l.OnThreadUpdate(t) })
	return nil
}

func (s *Shard) handleThreadDelete(env discord.Envelope) error {
	t, err := discord.NewThreadChannel(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l ThreadDeleteListener) { l.OnThreadDelete(t) })
	return nil
}
