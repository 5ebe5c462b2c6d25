package bot

import (
	"log/slog"
	"strconv"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrcord/internal/gateway"
	"github.com/sglre6355/sgrcord/internal/ratelimit"
)

// memberSession is the part of *discordgo.Session used to request members.
type memberSession interface {
	RequestGuildMembers(guildID, query string, limit int, nonce string, presences bool) error
}

// GatewayMemberRequester sends offline member requests over the shard's
// gateway connection. Requests share the shard's gateway command bucket.
type GatewayMemberRequester struct {
	sessions  []memberSession
	limiter   *ratelimit.Limiter
	presences bool
}

var _ gateway.MemberRequester = (*GatewayMemberRequester)(nil)

// NewGatewayMemberRequester creates a requester for the given shard
// sessions, indexed by shard id.
func NewGatewayMemberRequester(
	sessions []memberSession,
	limiter *ratelimit.Limiter,
	presences bool,
) *GatewayMemberRequester {
	return &GatewayMemberRequester{
		sessions:  sessions,
		limiter:   limiter,
		presences: presences,
	}
}

// RequestGuildMembers implements gateway.MemberRequester.
func (r *GatewayMemberRequester) RequestGuildMembers(shardID int, guildID snowflake.ID) {
	if shardID < 0 || shardID >= len(r.sessions) {
		slog.Warn("found no session for member request", "shard", shardID, "guild_id", guildID)
		return
	}
	session := r.sessions[shardID]

	r.limiter.Enqueue(gatewayRoute(shardID), func() {
		if err := session.RequestGuildMembers(guildID.String(), "", 0, "", r.presences); err != nil {
			slog.Warn("failed to request guild members",
				"shard", shardID,
				"guild_id", guildID,
				"error", err,
			)
			return
		}
		slog.Debug("requested guild members", "shard", shardID, "guild_id", guildID)
	})
}

func gatewayRoute(shardID int) string {
	return "gateway/" + strconv.Itoa(shardID)
}
