package gateway

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrcord/internal/discord"
)

// Listener is any value implementing one or more of the *Listener
// interfaces below. A listener only receives the notifications it has a
// method for.
//
// Objects passed to listeners are shared with the cache and must be treated
// as read-only.
type Listener any

// Channels.

// ChannelCreateListener is notified of every created channel, whatever its type.
type ChannelCreateListener interface {
	OnChannelCreate(c discord.Channel)
}

// ChannelDeleteListener is notified of every deleted channel.
type ChannelDeleteListener interface {
	OnChannelDelete(c discord.Channel)
}

// ChannelUpdateListener is notified after a channel update is applied.
type ChannelUpdateListener interface {
	OnChannelUpdate(c discord.Channel)
}

// ChannelPinsUpdateListener is notified when a channel's pins change.
type ChannelPinsUpdateListener interface {
	// lastPin is nil when the last pinned message was removed.
	OnChannelPinsUpdate(c discord.Channel, lastPin *time.Time)
}

// VoiceChannelCreateListener is notified when a guild voice channel is created.
type VoiceChannelCreateListener interface {
	OnVoiceChannelCreate(c *discord.GuildVoice)
}

// VoiceChannelDeleteListener is notified when a guild voice channel is deleted.
type VoiceChannelDeleteListener interface {
	OnVoiceChannelDelete(c *discord.GuildVoice)
}

// VoiceChannelUpdateListener is notified when a guild voice channel is updated.
type VoiceChannelUpdateListener interface {
	OnVoiceChannelUpdate(c *discord.GuildVoice)
}

// CategoryCreateListener is notified when a channel category is created.
type CategoryCreateListener interface {
	OnCategoryCreate(c *discord.GuildCategory)
}

// CategoryDeleteListener is notified when a channel category is deleted.
type CategoryDeleteListener interface {
	OnCategoryDelete(c *discord.GuildCategory)
}

// CategoryUpdateListener is notified when a channel category is updated.
type CategoryUpdateListener interface {
	OnCategoryUpdate(c *discord.GuildCategory)
}

// Guilds.

// GuildCreateListener is notified when the bot joins a new guild.
type GuildCreateListener interface {
	OnGuildCreate(g *discord.Guild)
}

// GuildAvailableListener is notified when a guild that was unavailable
// arrives, which is how every guild shows up after READY.
type GuildAvailableListener interface {
	OnGuildAvailable(g *discord.Guild)
}

// GuildReadyListener is notified after every GUILD_CREATE, available or not.
type GuildReadyListener interface {
	OnGuildReady(g *discord.Guild)
}

// GuildDeleteListener is notified when the bot leaves or is removed from a guild.
type GuildDeleteListener interface {
	OnGuildDelete(g *discord.Guild)
}

// UnavailableGuildDeleteListener is notified when a guild becomes unavailable during an outage.
type UnavailableGuildDeleteListener interface {
	OnUnavailableGuildDelete(g *discord.UnavailableGuild)
}

// GuildUpdateListener is notified after a guild update is applied.
type GuildUpdateListener interface {
	OnGuildUpdate(g *discord.Guild)
}

// GuildBanListener is notified when a user is banned from a guild.
type GuildBanListener interface {
	OnGuildBan(g *discord.Guild, u *discord.User)
}

// GuildUnbanListener is notified when a user's ban is lifted.
type GuildUnbanListener interface {
	OnGuildUnban(g *discord.Guild, u *discord.User)
}

// GuildEmojisUpdateListener receives the guild's new emoji list.
type GuildEmojisUpdateListener interface {
	OnGuildEmojisUpdate(g *discord.Guild, emojis []discord.Emoji)
}

// GuildIntegrationsUpdateListener is notified when a guild's integrations change.
type GuildIntegrationsUpdateListener interface {
	OnGuildIntegrationsUpdate(g *discord.Guild)
}

// GuildMemberJoinListener is notified when a member joins a guild.
type GuildMemberJoinListener interface {
	OnGuildMemberJoin(g *discord.Guild, m *discord.Member)
}

// GuildMemberLeaveListener is notified when a user leaves a guild.
type GuildMemberLeaveListener interface {
	OnGuildMemberLeave(g *discord.Guild, u *discord.User)
}

// GuildMemberUpdateListener is notified after a member update is cached.
type GuildMemberUpdateListener interface {
	OnGuildMemberUpdate(g *discord.Guild, m *discord.Member)
}

// GuildRoleCreateListener is notified when a role is created.
type GuildRoleCreateListener interface {
	OnGuildRoleCreate(g *discord.Guild, r *discord.Role)
}

// GuildRoleDeleteListener is notified with the role removed from the cache.
type GuildRoleDeleteListener interface {
	OnGuildRoleDelete(g *discord.Guild, r *discord.Role)
}

// GuildRoleUpdateListener is notified after a role is replaced.
type GuildRoleUpdateListener interface {
	OnGuildRoleUpdate(g *discord.Guild, r *discord.Role)
}

// Messages.

// MessageCreateListener is notified of every new message.
type MessageCreateListener interface {
	OnMessageCreate(m *discord.Message)
}

// MessageUpdateListener receives partial messages: only the id and channel
// are guaranteed.
type MessageUpdateListener interface {
	OnMessageUpdate(m *discord.Message)
}

// MessageDeleteListener is notified when a single message is deleted.
type MessageDeleteListener interface {
	OnMessageDelete(messageID snowflake.ID, c discord.Channel)
}

// MessageBulkDeleteListener is notified when messages are deleted in bulk.
type MessageBulkDeleteListener interface {
	OnMessageBulkDelete(messageIDs []snowflake.ID, c discord.Channel)
}

// MessageReactionAddListener is notified when a reaction is added to a message.
type MessageReactionAddListener interface {
	OnMessageReactionAdd(c discord.Channel, messageID, userID snowflake.ID, emoji discord.Emoji)
}

// MessageReactionRemoveListener is notified when a reaction is removed from a message.
type MessageReactionRemoveListener interface {
	OnMessageReactionRemove(c discord.Channel, messageID, userID snowflake.ID, emoji discord.Emoji)
}

// MessageReactionRemoveAllListener is notified when every reaction on a message is cleared.
type MessageReactionRemoveAllListener interface {
	OnMessageReactionRemoveAll(messageID snowflake.ID, c discord.Channel)
}

// Users, presences and voice.

// PresenceUpdateListener is notified of presence changes in cached guilds.
type PresenceUpdateListener interface {
	// m is nil when the member is not cached.
	OnPresenceUpdate(m *discord.Member, p *discord.Presence)
}

// TypingStartListener is notified when a user starts typing.
type TypingStartListener interface {
	OnTypingStart(c discord.Channel, userID snowflake.ID, at time.Time)
}

// UserUpdateListener is notified when the bot's own user changes.
type UserUpdateListener interface {
	OnUserUpdate(u *discord.User)
}

// VoiceChannelJoinListener is notified when a user joins or moves between voice channels.
type VoiceChannelJoinListener interface {
	OnVoiceChannelJoin(g *discord.Guild, vs *discord.VoiceState)
}

// VoiceChannelLeaveListener is notified when a user leaves voice.
type VoiceChannelLeaveListener interface {
	OnVoiceChannelLeave(g *discord.Guild, userID snowflake.ID)
}

// Lifecycle.

// ShardReadyListener is notified each time a shard receives READY.
type ShardReadyListener interface {
	OnShardReady(shardID int)
}

// ReadyListener is notified once, when every shard has received READY.
type ReadyListener interface {
	OnReady(self *discord.User)
}

// Threads.

// ThreadCreateListener is notified when a thread is created.
type ThreadCreateListener interface {
	OnThreadCreate(t *discord.ThreadChannel)
}

// ThreadUpdateListener is notified when a thread is updated.
type ThreadUpdateListener interface {
	OnThreadUpdate(t *discord.ThreadChannel)
}

// ThreadDeleteListener is notified when a thread is deleted.
type ThreadDeleteListener interface {
	OnThreadDelete(t *discord.ThreadChannel)
}

// Interactions.

// SlashCommandListener receives chat input command interactions.
type SlashCommandListener interface {
	OnSlashCommand(e *discord.SlashCommandEvent)
}

// UserCommandListener receives user context menu command interactions.
type UserCommandListener interface {
	OnUserCommand(e *discord.UserCommandEvent)
}

// MessageCommandListener receives message context menu command interactions.
type MessageCommandListener interface {
	OnMessageCommand(e *discord.MessageCommandEvent)
}

// ButtonClickListener receives button interactions.
type ButtonClickListener interface {
	OnButtonClick(e *discord.ButtonEvent)
}

// SelectMenuListener receives select menu interactions.
type SelectMenuListener interface {
	OnSelectMenu(e *discord.SelectMenuEvent)
}
