// Package gateway turns gateway dispatch events into cache mutations and
// listener notifications.
package gateway

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrcord/internal/cache"
	"github.com/sglre6355/sgrcord/internal/metrics"
)

// errStale marks events that refer to something the cache does not hold.
// They are expected after reconnects and out-of-order delivery.
var errStale = errors.New("stale event")

func stale(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errStale, fmt.Sprintf(format, args...))
}

// MemberRequester asks the gateway for the members of a guild that were not
// sent with GUILD_CREATE. Implementations must not block.
type MemberRequester interface {
	RequestGuildMembers(shardID int, guildID snowflake.ID)
}

// Option configures an Engine.
type Option func(*Engine)

// WithShardCount sets the number of shards READY must be received from
// before the global ready notification. Defaults to 1.
func WithShardCount(n int) Option {
	return func(e *Engine) {
		e.shardCount = n
	}
}

// WithCacheAllMembers enables member requests for large guilds and presence
// tracking on cached members.
func WithCacheAllMembers(enabled bool) Option {
	return func(e *Engine) {
		e.cacheAllMembers = enabled
	}
}

// WithMemberRequester sets where offline member requests are sent.
func WithMemberRequester(r MemberRequester) Option {
	return func(e *Engine) {
		e.members = r
	}
}

// Engine holds the state shared by all shards: the cache, the listeners and
// the caching policy.
type Engine struct {
	store     *cache.Store
	listeners *Registry
	members   MemberRequester

	shardCount      int
	cacheAllMembers bool

	shards []*Shard
}

// NewEngine creates an Engine and its shards.
func NewEngine(store *cache.Store, listeners *Registry, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		listeners:  listeners,
		shardCount: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.shardCount < 1 {
		e.shardCount = 1
	}

	e.shards = make([]*Shard, e.shardCount)
	for i := range e.shards {
		e.shards[i] = &Shard{id: i, engine: e}
	}
	return e
}

// Shard returns the shard with the given id.
func (e *Engine) Shard(id int) (*Shard, bool) {
	if id < 0 || id >= len(e.shards) {
		return nil, false
	}
	return e.shards[id], true
}

// Shards returns every shard, ordered by id.
func (e *Engine) Shards() []*Shard {
	result := make([]*Shard, len(e.shards))
	copy(result, e.shards)
	return result
}

// ShardCount returns the configured number of shards.
func (e *Engine) ShardCount() int {
	return e.shardCount
}

// Store returns the cache the engine writes to.
func (e *Engine) Store() *cache.Store {
	return e.store
}

func (e *Engine) requestMembers(shardID int, guildID snowflake.ID) {
	if e.members == nil {
		slog.Debug("skipped member request without requester", "shard", shardID, "guild_id", guildID)
		return
	}
	e.members.RequestGuildMembers(shardID, guildID)
}

func (e *Engine) observeGuilds() {
	metrics.CachedGuilds.WithLabelValues("available").Set(float64(e.store.GuildCount()))
	metrics.CachedGuilds.WithLabelValues("unavailable").Set(float64(e.store.UnavailableGuildCount()))
}
