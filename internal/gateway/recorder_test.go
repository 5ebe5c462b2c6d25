package gateway

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrcord/internal/cache"
	"github.com/sglre6355/sgrcord/internal/discord"
)

type call struct {
	method string
	args   []any
}

// recorder implements every listener interface and records each call.
type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) record(method string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{method: method, args: args})
}

func (r *recorder) methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	methods := make([]string, len(r.calls))
	for i, c := range r.calls {
		methods[i] = c.method
	}
	return methods
}

func (r *recorder) find(method string) (call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.calls {
		if c.method == method {
			return c, true
		}
	}
	return call{}, false
}

func (r *recorder) count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *recorder) OnChannelCreate(c discord.Channel)          { r.record("ChannelCreate", c) }
func (r *recorder) OnChannelDelete(c discord.Channel)          { r.record("ChannelDelete", c) }
func (r *recorder) OnChannelUpdate(c discord.Channel)          { r.record("ChannelUpdate", c) }
func (r *recorder) OnVoiceChannelCreate(c *discord.GuildVoice) { r.record("VoiceChannelCreate", c) }
func (r *recorder) OnVoiceChannelDelete(c *discord.GuildVoice) { r.record("VoiceChannelDelete", c) }
func (r *recorder) OnVoiceChannelUpdate(c *discord.GuildVoice) { r.record("VoiceChannelUpdate", c) }
func (r *recorder) OnCategoryCreate(c *discord.GuildCategory)  { r.record("CategoryCreate", c) }
func (r *recorder) OnCategoryDelete(c *discord.GuildCategory)  { r.record("CategoryDelete", c) }
func (r *recorder) OnCategoryUpdate(c *discord.GuildCategory)  { r.record("CategoryUpdate", c) }
func (r *recorder) OnGuildCreate(g *discord.Guild)             { r.record("GuildCreate", g) }
func (r *recorder) OnGuildAvailable(g *discord.Guild)          { r.record("GuildAvailable", g) }
func (r *recorder) OnGuildReady(g *discord.Guild)              { r.record("GuildReady", g) }
func (r *recorder) OnGuildDelete(g *discord.Guild)             { r.record("GuildDelete", g) }
func (r *recorder) OnGuildUpdate(g *discord.Guild)             { r.record("GuildUpdate", g) }
func (r *recorder) OnGuildIntegrationsUpdate(g *discord.Guild) {
	r.record("GuildIntegrationsUpdate", g)
}
func (r *recorder) OnGuildBan(g *discord.Guild, u *discord.User) { r.record("GuildBan", g, u) }
func (r *recorder) OnGuildUnban(g *discord.Guild, u *discord.User) {
	r.record("GuildUnban", g, u)
}
func (r *recorder) OnUnavailableGuildDelete(g *discord.UnavailableGuild) {
	r.record("UnavailableGuildDelete", g)
}
func (r *recorder) OnGuildEmojisUpdate(g *discord.Guild, emojis []discord.Emoji) {
	r.record("GuildEmojisUpdate", g, emojis)
}
func (r *recorder) OnGuildMemberJoin(g *discord.Guild, m *discord.Member) {
	r.record("GuildMemberJoin", g, m)
}
func (r *recorder) OnGuildMemberLeave(g *discord.Guild, u *discord.User) {
	r.record("GuildMemberLeave", g, u)
}
func (r *recorder) OnGuildMemberUpdate(g *discord.Guild, m *discord.Member) {
	r.record("GuildMemberUpdate", g, m)
}
func (r *recorder) OnGuildRoleCreate(g *discord.Guild, role *discord.Role) {
	r.record("GuildRoleCreate", g, role)
}
func (r *recorder) OnGuildRoleDelete(g *discord.Guild, role *discord.Role) {
	r.record("GuildRoleDelete", g, role)
}
func (r *recorder) OnGuildRoleUpdate(g *discord.Guild, role *discord.Role) {
	r.record("GuildRoleUpdate", g, role)
}
func (r *recorder) OnChannelPinsUpdate(c discord.Channel, lastPin *time.Time) {
	r.record("ChannelPinsUpdate", c, lastPin)
}
func (r *recorder) OnMessageCreate(m *discord.Message) { r.record("MessageCreate", m) }
func (r *recorder) OnMessageUpdate(m *discord.Message) { r.record("MessageUpdate", m) }
func (r *recorder) OnMessageDelete(id snowflake.ID, c discord.Channel) {
	r.record("MessageDelete", id, c)
}
func (r *recorder) OnMessageBulkDelete(ids []snowflake.ID, c discord.Channel) {
	r.record("MessageBulkDelete", ids, c)
}
func (r *recorder) OnMessageReactionAdd(c discord.Channel, messageID, userID snowflake.ID, e discord.Emoji) {
	r.record("MessageReactionAdd", c, messageID, userID, e)
}
func (r *recorder) OnMessageReactionRemove(c discord.Channel, messageID, userID snowflake.ID, e discord.Emoji) {
	r.record("MessageReactionRemove", c, messageID, userID, e)
}
func (r *recorder) OnMessageReactionRemoveAll(id snowflake.ID, c discord.Channel) {
	r.record("MessageReactionRemoveAll", id, c)
}
func (r *recorder) OnPresenceUpdate(m *discord.Member, p *discord.Presence) {
	r.record("PresenceUpdate", m, p)
}
func (r *recorder) OnTypingStart(c discord.Channel, userID snowflake.ID, at time.Time) {
	r.record("TypingStart", c, userID, at)
}
func (r *recorder) OnUserUpdate(u *discord.User) { r.record("UserUpdate", u) }
func (r *recorder) OnVoiceChannelJoin(g *discord.Guild, vs *discord.VoiceState) {
	r.record("VoiceChannelJoin", g, vs)
}
func (r *recorder) OnVoiceChannelLeave(g *discord.Guild, userID snowflake.ID) {
	r.record("VoiceChannelLeave", g, userID)
}
func (r *recorder) OnShardReady(shardID int)                        { r.record("ShardReady", shardID) }
func (r *recorder) OnReady(self *discord.User)                      { r.record("Ready", self) }
func (r *recorder) OnThreadCreate(t *discord.ThreadChannel)         { r.record("ThreadCreate", t) }
func (r *recorder) OnThreadUpdate(t *discord.ThreadChannel)         { r.record("ThreadUpdate", t) }
func (r *recorder) OnThreadDelete(t *discord.ThreadChannel)         { r.record("ThreadDelete", t) }
func (r *recorder) OnSlashCommand(e *discord.SlashCommandEvent)     { r.record("SlashCommand", e) }
func (r *recorder) OnUserCommand(e *discord.UserCommandEvent)       { r.record("UserCommand", e) }
func (r *recorder) OnMessageCommand(e *discord.MessageCommandEvent) { r.record("MessageCommand", e) }
func (r *recorder) OnButtonClick(e *discord.ButtonEvent)            { r.record("ButtonClick", e) }
func (r *recorder) OnSelectMenu(e *discord.SelectMenuEvent)         { r.record("SelectMenu", e) }

// memberRequests records offline member requests.
type memberRequests struct {
	mu       sync.Mutex
	requests []snowflake.ID
}

func (m *memberRequests) RequestGuildMembers(_ int, guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, guildID)
}

func (m *memberRequests) guilds() []snowflake.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.requests)
}

type harness struct {
	engine *Engine
	store  *cache.Store
	rec    *recorder
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	store := cache.NewStore()
	reg := NewRegistry()
	rec := &recorder{}
	reg.Register(rec)
	return &harness{
		engine: NewEngine(store, reg, opts...),
		store:  store,
		rec:    rec,
	}
}

// dispatch sends a raw JSON payload through shard 0.
func (h *harness) dispatch(t *testing.T, event Event, raw string) {
	t.Helper()
	h.dispatchOn(t, 0, event, raw)
}

func (h *harness) dispatchOn(t *testing.T, shardID int, event Event, raw string) {
	t.Helper()
	shard, ok := h.engine.Shard(shardID)
	if !ok {
		t.Fatalf("no shard %d", shardID)
	}
	env, err := discord.ParseEnvelope([]byte(raw))
	if err != nil {
		t.Fatalf("failed to parse %s payload: %v", event, err)
	}
	shard.Dispatch(string(event), env)
}

const testGuild = `{
	"id": "10",
	"name": "guild",
	"member_count": 2,
	"channels": [
		{"id": "20", "type": 0, "name": "general"},
		{"id": "21", "type": 2, "name": "voice"},
		{"id": "22", "type": 4, "name": "category"}
	],
	"roles": [{"id": "30", "name": "mod"}],
	"members": [
		{"user": {"id": "1", "username": "alice"}, "roles": ["30"]},
		{"user": {"id": "2", "username": "bob"}}
	],
	"voice_states": [{"user_id": "1", "channel_id": "21", "session_id": "s"}]
}`

// withGuild dispatches testGuild and clears the recorder.
func (h *harness) withGuild(t *testing.T) *discord.Guild {
	t.Helper()
	h.dispatch(t, EventGuildCreate, testGuild)
	g, ok := h.store.Guild(10)
	if !ok {
		t.Fatal("expected guild 10 to be cached")
	}
	h.rec.reset()
	return g
}

func assertMethods(t *testing.T, rec *recorder, want ...string) {
	t.Helper()
	got := rec.methods()
	if !slices.Equal(got, want) {
		t.Errorf("expected calls %v, got %v", want, got)
	}
}

func assertMirror(t *testing.T, g *discord.Guild) {
	t.Helper()
	for id, m := range g.Members {
		if m.VoiceState != g.VoiceStates[id] {
			t.Errorf("member %d: voice state not mirrored", id)
		}
	}
	for id := range g.VoiceStates {
		if _, ok := g.Members[id]; !ok {
			t.Errorf("voice state %d without cached member", id)
		}
	}
}
