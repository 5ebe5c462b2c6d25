package gateway

import (
	"log/slog"

	"github.com/sglre6355/sgrcord/internal/discord"
)

func (s *Shard) handleGuildCreate(env discord.Envelope) error {
	g, err := discord.NewGuild(env, s.id)
	if err != nil {
		return err
	}
	missingMembers := len(g.Members) < g.MemberCount

	wasUnavailable := s.engine.store.PutGuild(g)
	s.engine.observeGuilds()

	if wasUnavailable {
		notify(s.engine.listeners, func(l GuildAvailableListener) { l.OnGuildAvailable(g) })
	} else {
		notify(s.engine.listeners, func(l GuildCreateListener) { l.OnGuildCreate(g) })
	}

	if s.engine.cacheAllMembers && missingMembers {
		slog.Debug("requesting offline members", "shard", s.id, "guild_id", g.ID, "member_count", g.MemberCount)
		s.engine.requestMembers(s.id, g.ID)
	}

	notify(s.engine.listeners, func(l GuildReadyListener) { l.OnGuildReady(g) })
	return nil
}

func (s *Shard) handleGuildDelete(env discord.Envelope) error {
	id, err := env.Snowflake("id")
	if err != nil {
		return err
	}
	unavailable := false
	if env.Has("unavailable") {
		if unavailable, err = env.Bool("unavailable"); err != nil {
			return err
		}
	}

	var replacement *discord.UnavailableGuild
	if unavailable {
		replacement = &discord.UnavailableGuild{ID: id, ShardID: s.id}
	}
	g, ok := s.engine.store.RemoveGuild(id, replacement)
	if !ok {
		return stale("guild %d not cached", id)
	}
	s.engine.observeGuilds()

	if replacement != nil {
		notify(s.engine.listeners, func(l UnavailableGuildDeleteListener) { l.OnUnavailableGuildDelete(replacement) })
		return nil
	}
	notify(s.engine.listeners, func(l GuildDeleteListener) { l.OnGuildDelete(g) })
	return nil
}

func (s *Shard) handleGuildUpdate(env discord.Envelope) error {
	id, err := env.Snowflake("id")
	if err != nil {
		return err
	}

	var updateErr error
	g, ok := s.engine.store.UpdateGuild(id, func(g *discord.Guild) {
		updateErr = g.Update(env)
	})
	if !ok {
		return stale("guild %d not cached", id)
	}
	if updateErr != nil {
		return updateErr
	}

	notify(s.engine.listeners, func(l GuildUpdateListener) { l.OnGuildUpdate(g) })
	return nil
}

func (s *Shard) handleGuildMemberAdd(env discord.Envelope) error {
	g, m, err := s.putMember(env, true)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l GuildMemberJoinListener) { l.OnGuildMemberJoin(g, m) })
	return nil
}

func (s *Shard) handleGuildMemberUpdate(env discord.Envelope) error {
	g, m, err := s.putMember(env, false)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l GuildMemberUpdateListener) { l.OnGuildMemberUpdate(g, m) })
	return nil
}

// putMember caches the member carried by env. A join of a member not cached
// yet counts towards the guild's member count.
func (s *Shard) putMember(env discord.Envelope, join bool) (*discord.Guild, *discord.Member, error) {
	guildID, err := env.Snowflake("guild_id")
	if err != nil {
		return nil, nil, err
	}
	m, err := discord.NewMember(env, guildID)
	if err != nil {
		return nil, nil, err
	}

	g, ok := s.engine.store.UpdateGuild(guildID, func(g *discord.Guild) {
		_, known := g.Members[m.User.ID]
		g.PutMember(m)
		if join && !known {
			g.MemberCount++
		}
	})
	if !ok {
		return nil, nil, stale("guild %d not cached", guildID)
	}
	return g, m, nil
}

func (s *Shard) handleGuildMemberRemove(env discord.Envelope) error {
	guildID, err := env.Snowflake("guild_id")
	if err != nil {
		return err
	}
	userEnv, err := env.Object("user")
	if err != nil {
		return err
	}
	u, err := discord.NewUser(userEnv)
	if err != nil {
		return err
	}

	g, ok := s.engine.store.UpdateGuild(guildID, func(g *discord.Guild) {
		g.RemoveMember(u.ID)
		if g.MemberCount > 0 {
			g.MemberCount--
		}
	})
	if !ok {
		return stale("guild %d not cached", guildID)
	}

	notify(s.engine.listeners, func(l GuildMemberLeaveListener) { l.OnGuildMemberLeave(g, u) })
	return nil
}

func (s *Shard) handleGuildMembersChunk(env discord.Envelope) error {
	guildID, err := env.Snowflake("guild_id")
	if err != nil {
		return err
	}
	memberEnvs, err := env.Objects("members")
	if err != nil {
		return err
	}
	members := make([]*discord.Member, 0, len(memberEnvs))
	for _, me := range memberEnvs {
		m, err := discord.NewMember(me, guildID)
		if err != nil {
			return err
		}
		members = append(members, m)
	}
	presenceEnvs, err := env.OptionalObjects("presences")
	if err != nil {
		return err
	}
	presences := make([]*discord.Presence, 0, len(presenceEnvs))
	for _, pe := range presenceEnvs {
		p, err := discord.NewPresence(pe)
		if err != nil {
			return err
		}
		p.GuildID = guildID
		presences = append(presences, p)
	}

	_, ok := s.engine.store.UpdateGuild(guildID, func(g *discord.Guild) {
		for _, m := range members {
			g.PutMember(m)
		}
		for _, p := range presences {
			if m, ok := g.Members[p.UserID]; ok {
				m.Presence = p
			}
		}
	})
	if !ok {
		return stale("guild %d not cached", guildID)
	}
	slog.Debug("cached member chunk", "shard", s.id, "guild_id", guildID, "members", len(members))
	return nil
}

func (s *Shard) handleGuildRoleCreate(env discord.Envelope) error {
	g, r, err := s.putRole(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l GuildRoleCreateListener) { l.OnGuildRoleCreate(g, r) })
	return nil
}

func (s *Shard) handleGuildRoleUpdate(env discord.Envelope) error {
	g, r, err := s.putRole(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l GuildRoleUpdateListener) { l.OnGuildRoleUpdate(g, r) })
	return nil
}

func (s *Shard) putRole(env discord.Envelope) (*discord.Guild, *discord.Role, error) {
	guildID, err := env.Snowflake("guild_id")
	if err != nil {
		return nil, nil, err
	}
	roleEnv, err := env.Object("role")
	if err != nil {
		return nil, nil, err
	}
	r, err := discord.NewRole(roleEnv)
	if err != nil {
		return nil, nil, err
	}

	g, ok := s.engine.store.UpdateGuild(guildID, func(g *discord.Guild) {
		g.Roles[r.ID] = r
	})
	if !ok {
		return nil, nil, stale("guild %d not cached", guildID)
	}
	return g, r, nil
}

func (s *Shard) handleGuildRoleDelete(env discord.Envelope) error {
	guildID, err := env.Snowflake("guild_id")
	if err != nil {
		return err
	}
	roleID, err := env.Snowflake("role_id")
	if err != nil {
		return err
	}

	var removed *discord.Role
	g, ok := s.engine.store.UpdateGuild(guildID, func(g *discord.Guild) {
		if r, ok := g.Roles[roleID]; ok {
			removed = r
			delete(g.Roles, roleID)
		}
	})
	if !ok {
		return stale("guild %d not cached", guildID)
	}
	if removed == nil {
		return stale("role %d of guild %d not cached", roleID, guildID)
	}

	notify(s.engine.listeners, func(l GuildRoleDeleteListener) { l.OnGuildRoleDelete(g, removed) })
	return nil
}

func (s *Shard) handleGuildBanAdd(env discord.Envelope) error {
	g, u, err := s.banned(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l GuildBanListener) { l.OnGuildBan(g, u) })
	return nil
}

func (s *Shard) handleGuildBanRemove(env discord.Envelope) error {
	g, u, err := s.banned(env)
	if err != nil {
		return err
	}
	notify(s.engine.listeners, func(l GuildUnbanListener) { l.OnGuildUnban(g, u) })
	return nil
}

func (s *Shard) banned(env discord.Envelope) (*discord.Guild, *discord.User, error) {
	guildID, err := env.Snowflake("guild_id")
	if err != nil {
		return nil, nil, err
	}
	userEnv, err := env.Object("user")
	if err != nil {
		return nil, nil, err
	}
	u, err := discord.NewUser(userEnv)
	if err != nil {
		return nil, nil, err
	}
	g, ok := s.engine.store.Guild(guildID)
	if !ok {
		return nil, nil, stale("guild %d not cached", guildID)
	}
	return g, u, nil
}

func (s *Shard) handleGuildEmojisUpdate(env discord.Envelope) error {
	guildID, err := env.Snowflake("guild_id")
	if err != nil {
		return err
	}
	emojiEnvs, err := env.Objects("emojis")
	if err != nil {
		return err
	}
	emojis, err := discord.NewEmojis(emojiEnvs)
	if err != nil {
		return err
	}

	g, ok := s.engine.store.UpdateGuild(guildID, func(g *discord.Guild) {
		g.Emojis = emojis
	})
	if !ok {
		return stale("guild %d not cached", guildID)
	}

	notify(s.engine.listeners, func(l GuildEmojisUpdateListener) { l.OnGuildEmojisUpdate(g, emojis) })
	return nil
}

func (s *Shard) handleGuildIntegrationsUpdate(env discord.Envelope) error {
	guildID, err := env.Snowflake("guild_id")
	if err != nil {
		return err
	}
	g, ok := s.engine.store.Guild(guildID)
	if !ok {
		return stale("guild %d not cached", guildID)
	}
	notify(s.engine.listeners, func(l GuildIntegrationsUpdateListener) { l.OnGuildIntegrationsUpdate(g) })
	return nil
}
