package gateway

import "github.com/sglre6355/sgrcord/internal/discord"

// Event is the name of a gateway dispatch event as sent on the wire.
type Event string

const (
	EventChannelCreate            Event = "CHANNEL_CREATE"
	EventChannelDelete            Event = "CHANNEL_DELETE"
	EventChannelPinsUpdate        Event = "CHANNEL_PINS_UPDATE"
	EventChannelUpdate            Event = "CHANNEL_UPDATE"
	EventGuildBanAdd              Event = "GUILD_BAN_ADD"
	EventGuildBanRemove           Event = "GUILD_BAN_REMOVE"
	EventGuildCreate              Event = "GUILD_CREATE"
	EventGuildDelete              Event = "GUILD_DELETE"
	EventGuildEmojisUpdate        Event = "GUILD_EMOJIS_UPDATE"
	EventGuildIntegrationsUpdate  Event = "GUILD_INTEGRATIONS_UPDATE"
	EventGuildMemberAdd           Event = "GUILD_MEMBER_ADD"
	EventGuildMemberRemove        Event = "GUILD_MEMBER_REMOVE"
	EventGuildMemberUpdate        Event = "GUILD_MEMBER_UPDATE"
	EventGuildMembersChunk        Event = "GUILD_MEMBERS_CHUNK"
	EventGuildRoleCreate          Event = "GUILD_ROLE_CREATE"
	EventGuildRoleDelete          Event = "GUILD_ROLE_DELETE"
	EventGuildRoleUpdate          Event = "GUILD_ROLE_UPDATE"
	EventGuildUpdate              Event = "GUILD_UPDATE"
	EventInteractionCreate        Event = "INTERACTION_CREATE"
	EventMessageCreate            Event = "MESSAGE_CREATE"
	EventMessageDelete            Event = "MESSAGE_DELETE"
	EventMessageDeleteBulk        Event = "MESSAGE_DELETE_BULK"
	EventMessageReactionAdd       Event = "MESSAGE_REACTION_ADD"
	EventMessageReactionRemove    Event = "MESSAGE_REACTION_REMOVE"
	EventMessageReactionRemoveAll Event = "MESSAGE_REACTION_REMOVE_ALL"
	EventMessageUpdate            Event = "MESSAGE_UPDATE"
	EventPresenceUpdate           Event = "PRESENCE_UPDATE"
	EventReady                    Event = "READY"
	EventResumed                  Event = "RESUMED"
	EventThreadCreate             Event = "THREAD_CREATE"
	EventThreadDelete             Event = "THREAD_DELETE"
	EventThreadUpdate             Event = "THREAD_UPDATE"
	EventTypingStart              Event = "TYPING_START"
	EventUserUpdate               Event = "USER_UPDATE"
	EventVoiceStateUpdate         Event = "VOICE_STATE_UPDATE"

	// Known to the transport but without any effect on the cache or listeners.
	EventVoiceServerUpdate Event = "VOICE_SERVER_UPDATE"
	EventAudioData         Event = "AUDIO_DATA"
	EventConnectionClose   Event = "CONNECTION_CLOSE"
	EventDisconnect        Event = "DISCONNECT"
	EventGuildAvailable    Event = "GUILD_AVAILABLE"
	EventGuildUnavailable  Event = "GUILD_UNAVAILABLE"
	EventPayload           Event = "PAYLOAD"
	EventResume            Event = "RESUME"
	EventShardReady        Event = "SHARD_READY"
	EventVoiceChannelJoin  Event = "VOICE_CHANNEL_JOIN"
	EventVoiceChannelLeave Event = "VOICE_CHANNEL_LEAVE"
)

type handlerFunc func(s *Shard, env discord.Envelope) error

// handlers is the closed set of events the shard understands.
var handlers = map[Event]handlerFunc{
	EventChannelCreate:            (*Shard).handleChannelCreate,
	EventChannelDelete:            (*Shard).handleChannelDelete,
	EventChannelPinsUpdate:        (*Shard).handleChannelPinsUpdate,
	EventChannelUpdate:            (*Shard).handleChannelUpdate,
	EventGuildBanAdd:              (*Shard).handleGuildBanAdd,
	EventGuildBanRemove:           (*Shard).handleGuildBanRemove,
	EventGuildCreate:              (*Shard).handleGuildCreate,
	EventGuildDelete:              (*Shard).handleGuildDelete,
	EventGuildEmojisUpdate:        (*Shard).handleGuildEmojisUpdate,
	EventGuildIntegrationsUpdate:  (*Shard).handleGuildIntegrationsUpdate,
	EventGuildMemberAdd:           (*Shard).handleGuildMemberAdd,
	EventGuildMemberRemove:        (*Shard).handleGuildMemberRemove,
	EventGuildMemberUpdate:        (*Shard).handleGuildMemberUpdate,
	EventGuildMembersChunk:        (*Shard).handleGuildMembersChunk,
	EventGuildRoleCreate:          (*Shard).handleGuildRoleCreate,
	EventGuildRoleDelete:          (*Shard).handleGuildRoleDelete,
	EventGuildRoleUpdate:          (*Shard).handleGuildRoleUpdate,
	EventGuildUpdate:              (*Shard).handleGuildUpdate,
	EventInteractionCreate:        (*Shard).handleInteractionCreate,
	EventMessageCreate:            (*Shard).handleMessageCreate,
	EventMessageDelete:            (*Shard).handleMessageDelete,
	EventMessageDeleteBulk:        (*Shard).handleMessageDeleteBulk,
	EventMessageReactionAdd:       (*Shard).handleMessageReactionAdd,
	EventMessageReactionRemove:    (*Shard).handleMessageReactionRemove,
	EventMessageReactionRemoveAll: (*Shard).handleMessageReactionRemoveAll,
	EventMessageUpdate:            (*Shard).handleMessageUpdate,
	EventPresenceUpdate:           (*Shard).handlePresenceUpdate,
	EventReady:                    (*Shard).handleReady,
	EventResumed:                  (*Shard).handleResumed,
	EventThreadCreate:             (*Shard).handleThreadCreate,
	EventThreadDelete:             (*Shard).handleThreadDelete,
	EventThreadUpdate:             (*Shard).handleThreadUpdate,
	EventTypingStart:              (*Shard).handleTypingStart,
	EventUserUpdate:               (*Shard).handleUserUpdate,
	EventVoiceStateUpdate:         (*Shard).handleVoiceStateUpdate,

	EventVoiceServerUpdate: noop,
	EventAudioData:         noop,
	EventConnectionClose:   noop,
	EventDisconnect:        noop,
	EventGuildAvailable:    noop,
	EventGuildUnavailable:  noop,
	EventPayload:           noop,
	EventResume:            noop,
	EventShardReady:        noop,
	EventVoiceChannelJoin:  noop,
	EventVoiceChannelLeave: noop,
}

func noop(*Shard, discord.Envelope) error { return nil }

// Known reports whether e is one of the events the shard understands.
func Known(e Event) bool {
	_, ok := handlers[e]
	return ok
}
