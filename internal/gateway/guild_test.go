package gateway

import (
	"maps"
	"slices"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrcord/internal/discord"
)

func TestGuildCreate_New(t *testing.T) {
	h := newHarness(t)

	h.dispatch(t, EventGuildCreate, testGuild)

	g, ok := h.store.Guild(10)
	if !ok {
		t.Fatal("expected guild to be cached")
	}
	if len(g.Channels) != 3 || len(g.Members) != 2 || len(g.Roles) != 1 {
		t.Errorf("unexpected guild contents %+v", g)
	}
	assertMirror(t, g)
	assertMethods(t, h.rec, "GuildCreate", "GuildReady")
}

func TestGuildCreate_Available(t *testing.T) {
	h := newHarness(t)

	h.dispatch(t, EventReady, `{"session_id":"s","user":{"id":"99"},"guilds":[{"id":"10","unavailable":true}]}`)
	if _, ok := h.store.UnavailableGuild(10); !ok {
		t.Fatal("expected guild 10 to start unavailable")
	}
	h.rec.reset()

	h.dispatch(t, EventGuildCreate, testGuild)

	if _, ok := h.store.UnavailableGuild(10); ok {
		t.Error("expected unavailable entry to be dropped")
	}
	if _, ok := h.store.Guild(10); !ok {
		t.Error("expected guild to be cached")
	}
	assertMethods(t, h.rec, "GuildAvailable", "GuildReady")
}

func TestGuildCreate_RequestsOfflineMembers(t *testing.T) {
	requests := &memberRequests{}
	h := newHarness(t, WithCacheAllMembers(true), WithMemberRequester(requests))

	h.dispatch(t, EventGuildCreate, `{"id":"10","member_count":500,"members":[{"user":{"id":"1"}}]}`)
	h.dispatch(t, EventGuildCreate, `{"id":"11","member_count":1,"members":[{"user":{"id":"1"}}]}`)

	if got := requests.guilds(); !slices.Equal(got, []snowflake.ID{10}) {
		t.Errorf("expected a request for guild 10 only, got %v", got)
	}
}

func TestGuildCreate_NoRequestWithoutPolicy(t *testing.T) {
	requests := &memberRequests{}
	h := newHarness(t, WithMemberRequester(requests))

	h.dispatch(t, EventGuildCreate, `{"id":"10","member_count":500,"members":[]}`)

	if got := requests.guilds(); len(got) != 0 {
		t.Errorf("expected no requests, got %v", got)
	}
}

func TestGuildDelete(t *testing.T) {
	h := newHarness(t)
	h.withGuild(t)

	h.dispatch(t, EventGuildDelete, `{"id":"10"}`)
	h.dispatch(t, EventGuildDelete, `{"id":"10"}`)

	if _, ok := h.store.Guild(10); ok {
		t.Error("expected guild to be removed")
	}
	if _, ok := h.store.UnavailableGuild(10); ok {
		t.Error("expected no unavailable entry")
	}
	assertMethods(t, h.rec, "GuildDelete")
}

func TestGuildDelete_Unavailable(t *testing.T) {
	h := newHarness(t)
	h.withGuild(t)

	h.dispatch(t, EventGuildDelete, `{"id":"10","unavailable":true}`)

	if _, ok := h.store.Guild(10); ok {
		t.Error("expected guild to be removed")
	}
	if ug, ok := h.store.UnavailableGuild(10); !ok || ug.ShardID != 0 {
		t.Errorf("expected unavailable entry on shard 0, got %+v", ug)
	}
	assertMethods(t, h.rec, "UnavailableGuildDelete")

	// The outage ends.
	h.rec.reset()
	h.dispatch(t, EventGuildCreate, testGuild)
	assertMethods(t, h.rec, "GuildAvailable", "GuildReady")
}

func TestGuildDelete_AvailableFalseRemoves(t *testing.T) {
	h := newHarness(t)
	h.withGuild(t)

	h.dispatch(t, EventGuildDelete, `{"id":"10","unavailable":false}`)

	if _, ok := h.store.UnavailableGuild(10); ok {
		t.Error("expected no unavailable entry")
	}
	assertMethods(t, h.rec, "GuildDelete")
}

func TestGuild_AtMostOneEntryPerID(t *testing.T) {
	h := newHarness(t)
	check := func(step string) {
		t.Helper()
		_, available := h.store.Guild(10)
		_, unavailable := h.store.UnavailableGuild(10)
		if available && unavailable {
			t.Fatalf("%s: guild 10 is both available and unavailable", step)
		}
	}

	h.dispatch(t, EventReady, `{"session_id":"s","user":{"id":"99"},"guilds":[{"id":"10"}]}`)
	check("ready")
	h.dispatch(t, EventGuildCreate, testGuild)
	check("create")
	h.dispatch(t, EventGuildDelete, `{"id":"10","unavailable":true}`)
	check("outage")
	h.dispatch(t, EventGuildCreate, testGuild)
	check("recovered")
	h.dispatch(t, EventReady, `{"session_id":"t","user":{"id":"99"},"guilds":[{"id":"10"}]}`)
	check("reconnect")
	h.dispatch(t, EventGuildDelete, `{"id":"10"}`)
	check("removed")
}

func TestGuildUpdate(t *testing.T) {
	h := newHarness(t)
	g := h.withGuild(t)

	h.dispatch(t, EventGuildUpdate, `{"id":"10","name":"renamed"}`)
	h.dispatch(t, EventGuildUpdate, `{"id":"11","name":"elsewhere"}`)

	if g.Name != "renamed" || len(g.Members) != 2 {
		t.Errorf("expected in-place rename, got %+v", g)
	}
	assertMethods(t, h.rec, "GuildUpdate")
}

func TestGuildMember_AddRemoveRoundTrip(t *testing.T) {
	h := newHarness(t)
	g := h.withGuild(t)
	before := maps.Clone(g.Members)

	h.dispatch(t, EventGuildMemberAdd, `{"guild_id":"10","user":{"id":"3","username":"carol"},"roles":[]}`)
	if _, ok := g.Members[3]; !ok {
		t.Fatal("expected member 3 to be cached")
	}
	h.dispatch(t, EventGuildMemberRemove, `{"guild_id":"10","user":{"id":"3","username":"carol"}}`)

	if !maps.Equal(g.Members, before) {
		t.Errorf("expected member map to be restored, got %v", g.Members)
	}
	if g.MemberCount != 2 {
		t.Errorf("expected member count 2, got %d", g.MemberCount)
	}
	assertMethods(t, h.rec, "GuildMemberJoin", "GuildMemberLeave")
}

func TestGuildMemberAdd_DuplicateKeepsCount(t *testing.T) {
	h := newHarness(t)
	g := h.withGuild(t)

	h.dispatch(t, EventGuildMemberAdd, `{"guild_id":"10","user":{"id":"3","username":"carol"},"roles":[]}`)
	h.dispatch(t, EventGuildMemberAdd, `{"guild_id":"10","user":{"id":"3","username":"carol"},"roles":[]}`)

	if g.MemberCount != 3 {
		t.Errorf("expected member count 3, got %d", g.MemberCount)
	}
	assertMethods(t, h.rec, "GuildMemberJoin", "GuildMemberJoin")
}

func TestGuildMemberRemove_EvictedMemberCounts(t *testing.T) {
	h := newHarness(t)
	g := h.withGuild(t)

	h.dispatch(t, EventPresenceUpdate, offlinePresence)
	if _, ok := g.Members[2]; ok {
		t.Fatal("expected offline member to be evicted")
	}
	h.dispatch(t, EventGuildMemberRemove, `{"guild_id":"10","user":{"id":"2","username":"bob"}}`)

	if g.MemberCount != 1 {
		t.Errorf("expected member count 1, got %d", g.MemberCount)
	}
	assertMethods(t, h.rec, "GuildMemberLeave")
}

func TestGuildMemberUpdate_KeepsVoiceState(t *testing.T) {
	h := newHarness(t)
	g := h.withGuild(t)

	h.dispatch(t, EventGuildMemberUpdate, `{"guild_id":"10","user":{"id":"1","username":"alice"},"nick":"al","roles":[]}`)

	m := g.Members[1]
	if m.Nick != "al" {
		t.Errorf("expected nick al, got %q", m.Nick)
	}
	if m.VoiceState == nil {
		t.Error("expected replaced member to keep its voice state")
	}
	assertMirror(t, g)
	assertMethods(t, h.rec, "GuildMemberUpdate")
}

func TestGuildMemberRemove_ClearsVoiceState(t *testing.T) {
	h := newHarness(t)
	g := h.withGuild(t)

	h.dispatch(t, EventGuildMemberRemove, `{"guild_id":"10","user":{"id":"1"}}`)

	if _, ok := g.VoiceStates[1]; ok {
		t.Error("expected voice state to be removed with the member")
	}
	assertMirror(t, g)
}

func TestGuildMembersChunk(t *testing.T) {
	h := newHarness(t)
	g := h.withGuild(t)

	h.dispatch(t, EventGuildMembersChunk, `{
		"guild_id": "10",
		"members": [{"user": {"id": "3"}}, {"user": {"id": "4"}}],
		"presences": [{"user": {"id": "4"}, "status": "online"}]
	}`)

	if len(g.Members) != 4 {
		t.Errorf("expected 4 members, got %d", len(g.Members))
	}
	if p := g.Members[4].Presence; p == nil || p.Status != discord.StatusOnline {
		t.Errorf("expected chunk presence to be attached, got %+v", p)
	}
	assertMethods(t, h.rec)
}

func TestGuildRoles(t *testing.T) {
	h := newHarness(t)
	g := h.withGuild(t)

	h.dispatch(t, EventGuildRoleCreate, `{"guild_id":"10","role":{"id":"31","name":"new"}}`)
	h.dispatch(t, EventGuildRoleUpdate, `{"guild_id":"10","role":{"id":"31","name":"renamed"}}`)
	if r := g.Roles[31]; r == nil || r.Name != "renamed" {
		t.Fatalf("expected role 31 renamed, got %+v", r)
	}

	h.dispatch(t, EventGuildRoleDelete, `{"guild_id":"10","role_id":"31"}`)
	h.dispatch(t, EventGuildRoleDelete, `{"guild_id":"10","role_id":"31"}`)
	if _, ok := g.Roles[31]; ok {
		t.Error("expected role 31 to be removed")
	}

	assertMethods(t, h.rec, "GuildRoleCreate", "GuildRoleUpdate", "GuildRoleDelete")
	got, _ := h.rec.find("GuildRoleDelete")
	if r := got.args[1].(*discord.Role); r.Name != "renamed" {
		t.Errorf("expected removed role to be announced, got %+v", r)
	}
}

func TestGuildBans(t *testing.T) {
	h := newHarness(t)
	g := h.withGuild(t)

	h.dispatch(t, EventGuildBanAdd, `{"guild_id":"10","user":{"id":"2"}}`)
	h.dispatch(t, EventGuildBanRemove, `{"guild_id":"10","user":{"id":"2"}}`)
	h.dispatch(t, EventGuildBanAdd, `{"guild_id":"11","user":{"id":"2"}}`)

	if _, ok := g.Members[2]; !ok {
		t.Error("expected bans not to touch the member cache")
	}
	assertMethods(t, h.rec, "GuildBan", "GuildUnban")
}

func TestGuildEmojisUpdate(t *testing.T) {
	h := newHarness(t)
	g := h.withGuild(t)

	h.dispatch(t, EventGuildEmojisUpdate, `{"guild_id":"10","emojis":[{"id":"60","name":"a"},{"id":"61","name":"b"}]}`)

	if len(g.Emojis) != 2 || g.Emojis[1].Name != "b" {
		t.Errorf("expected emojis to be replaced, got %v", g.Emojis)
	}
	assertMethods(t, h.rec, "GuildEmojisUpdate")
}

func TestGuildIntegrationsUpdate(t *testing.T) {
	h := newHarness(t)
	h.withGuild(t)

	h.dispatch(t, EventGuildIntegrationsUpdate, `{"guild_id":"10"}`)
	h.dispatch(t, EventGuildIntegrationsUpdate, `{"guild_id":"11"}`)

	assertMethods(t, h.rec, "GuildIntegrationsUpdate")
}
