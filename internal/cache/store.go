package cache

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrcord/internal/discord"
)

// Store is the in-memory view of the world shared by every shard.
//
// A single lock guards all maps, so a guild lookup followed by a mutation
// (UpdateGuild, UpdateChannel) is atomic with respect to other shards.
// Objects handed out by the store must only be mutated through it.
type Store struct {
	mu sync.RWMutex

	guilds            map[snowflake.ID]*discord.Guild
	unavailableGuilds map[snowflake.ID]*discord.UnavailableGuild
	dms               map[snowflake.ID]*discord.DM // keyed by recipient id
	groups            map[snowflake.ID]*discord.GroupDM

	user        *discord.User
	readyAt     time.Time
	readyShards map[int]struct{}
	readyFired  bool
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		guilds:            make(map[snowflake.ID]*discord.Guild),
		unavailableGuilds: make(map[snowflake.ID]*discord.UnavailableGuild),
		dms:               make(map[snowflake.ID]*discord.DM),
		groups:            make(map[snowflake.ID]*discord.GroupDM),
		readyShards:       make(map[int]struct{}),
	}
}

// Guild returns the cached guild with the given id.
func (s *Store) Guild(id snowflake.ID) (*discord.Guild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.guilds[id]
	return g, ok
}

// UnavailableGuild returns the unavailable guild with the given id.
func (s *Store) UnavailableGuild(id snowflake.ID) (*discord.UnavailableGuild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.unavailableGuilds[id]
	return g, ok
}

// PutGuild caches g, replacing any unavailable entry for the same id. It
// reports whether such an entry existed.
func (s *Store) PutGuild(g *discord.Guild) (wasUnavailable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, wasUnavailable = s.unavailableGuilds[g.ID]
	delete(s.unavailableGuilds, g.ID)
	s.guilds[g.ID] = g
	return wasUnavailable
}

// RemoveGuild removes the cached guild. When replacement is not nil it is
// stored in place of the removed guild in the same critical section.
func (s *Store) RemoveGuild(
	id snowflake.ID,
	replacement *discord.UnavailableGuild,
) (*discord.Guild, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.guilds[id]
	if !ok {
		return nil, false
	}
	delete(s.guilds, id)
	if replacement != nil {
		s.unavailableGuilds[replacement.ID] = replacement
	}
	return g, true
}

// PutUnavailableGuild marks a guild unavailable, dropping its cached data.
func (s *Store) PutUnavailableGuild(g *discord.UnavailableGuild) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.guilds, g.ID)
	s.unavailableGuilds[g.ID] = g
}

// UpdateGuild runs fn on the cached guild while holding the write lock.
// It returns the guild, or false without calling fn when it is not cached.
func (s *Store) UpdateGuild(id snowflake.ID, fn func(g *discord.Guild)) (*discord.Guild, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.guilds[id]
	if !ok {
		return nil, false
	}
	fn(g)
	return g, true
}

// GuildCount returns the number of available guilds.
func (s *Store) GuildCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.guilds)
}

// UnavailableGuildCount returns the number of unavailable guilds.
func (s *Store) UnavailableGuildCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.unavailableGuilds)
}

// PutDM caches a DM under its recipient's id.
func (s *Store) PutDM(dm *discord.DM) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dms[dm.Recipient.ID] = dm
}

// DM returns the DM with the given recipient.
func (s *Store) DM(recipientID snowflake.ID) (*discord.DM, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dm, ok := s.dms[recipientID]
	return dm, ok
}

// RemoveDM removes the DM with the given recipient.
func (s *Store) RemoveDM(recipientID snowflake.ID) (*discord.DM, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dm, ok := s.dms[recipientID]
	delete(s.dms, recipientID)
	return dm, ok
}

// PutGroup caches or replaces a group DM.
func (s *Store) PutGroup(g *discord.GroupDM) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups[g.ChannelID] = g
}

// ReplaceGroup replaces a cached group DM wholesale. It reports false, and
// stores nothing, when the group is not cached.
func (s *Store) ReplaceGroup(g *discord.GroupDM) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[g.ChannelID]; !ok {
		return false
	}
	s.groups[g.ChannelID] = g
	return true
}

// Group returns the group DM with the given channel id.
func (s *Store) Group(id snowflake.ID) (*discord.GroupDM, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	return g, ok
}

// RemoveGroup removes the group DM with the given channel id.
func (s *Store) RemoveGroup(id snowflake.ID) (*discord.GroupDM, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	delete(s.groups, id)
	return g, ok
}

// FindChannel searches guild channels, DMs and group DMs for id.
func (s *Store) FindChannel(id snowflake.ID) (discord.Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findChannel(id)
}

// UpdateChannel runs fn on the channel with the given id while holding the
// write lock.
func (s *Store) UpdateChannel(id snowflake.ID, fn func(c discord.Channel)) (discord.Channel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.findChannel(id)
	if !ok {
		return nil, false
	}
	fn(c)
	return c, true
}

func (s *Store) findChannel(id snowflake.ID) (discord.Channel, bool) {
	for _, g := range s.guilds {
		if c, ok := g.Channels[id]; ok {
			return c, true
		}
	}
	for _, dm := range s.dms {
		if dm.ChannelID == id {
			return dm, true
		}
	}
	if g, ok := s.groups[id]; ok {
		return g, true
	}
	return nil, false
}

// SetUser stores the bot's own user.
func (s *Store) SetUser(u *discord.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = u
}

// ReplaceUser swaps the stored bot user for u when both have the same id.
func (s *Store) ReplaceUser(u *discord.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil || s.user.ID != u.ID {
		return false
	}
	s.user = u
	return true
}

// User returns the bot's own user, nil before the first ready.
func (s *Store) User() *discord.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user
}

// SetReadyAt records when the last ready event was received.
func (s *Store) SetReadyAt(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readyAt = t
}

// ReadyAt returns when the last ready event was received.
func (s *Store) ReadyAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readyAt
}

// MarkShardReady records that shardID is ready and returns the number of
// distinct ready shards. allReady is true exactly once: on the call that
// brings the count to total.
func (s *Store) MarkShardReady(shardID, total int) (count int, allReady bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readyShards[shardID] = struct{}{}
	count = len(s.readyShards)
	if !s.readyFired && count >= total {
		s.readyFired = true
		return count, true
	}
	return count, false
}
