package bot

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/sgrcord/internal/gateway"
)

func testConfig() *Config {
	return &Config{
		DiscordToken:           "test-token",
		ShardCount:             2,
		GatewayCommandLimit:    120,
		GatewayCommandInterval: time.Minute,
		RESTRouteLimit:         5,
		RESTRouteInterval:      5 * time.Second,
	}
}

func TestNewBot(t *testing.T) {
	cfg := testConfig()

	b := NewBot(cfg)

	if b == nil {
		t.Fatal("expected bot to be created, got nil")
	}
	if b.config != cfg {
		t.Error("expected config to be stored")
	}
	if b.Store() == nil {
		t.Error("expected a cache store")
	}
}

func TestNewBot_GatewayBucketPerShard(t *testing.T) {
	b := NewBot(testConfig())

	gw := b.limiter.Bucket(gatewayRoute(1))
	rest := b.limiter.Bucket(messageRoute(10))

	if gw.Tokens() != 120 {
		t.Errorf("expected gateway bucket of 120, got %d", gw.Tokens())
	}
	if rest.Tokens() != 5 {
		t.Errorf("expected REST bucket of 5, got %d", rest.Tokens())
	}
}

func TestNewBot_ChannelBucketsShareMetricLabel(t *testing.T) {
	b := NewBot(testConfig())

	a := b.limiter.Bucket(messageRoute(10))
	c := b.limiter.Bucket(messageRoute(11))

	if a.MetricLabel() != messageRouteLabel || c.MetricLabel() != messageRouteLabel {
		t.Errorf("expected %q for both channels, got %q and %q",
			messageRouteLabel, a.MetricLabel(), c.MetricLabel())
	}
	if got := b.limiter.Bucket(gatewayRoute(1)).MetricLabel(); got != "gateway/1" {
		t.Errorf("expected gateway/1, got %q", got)
	}
}

func TestBot_NewSession(t *testing.T) {
	cfg := testConfig()
	cfg.GatewayIntents = int(discordgo.IntentsGuilds)
	b := NewBot(cfg)

	s, err := b.newSession(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.ShardID != 1 || s.ShardCount != 2 {
		t.Errorf("expected shard 1 of 2, got %d of %d", s.ShardID, s.ShardCount)
	}
	if s.StateEnabled || !s.SyncEvents {
		t.Error("expected stateless session with synchronous events")
	}
	if s.Identify.Intents != discordgo.IntentsGuilds {
		t.Errorf("expected guild intents, got %d", s.Identify.Intents)
	}
}

func TestBot_InitModules_InitializesModules(t *testing.T) {
	b := NewBot(testConfig())
	mod := &stubModule{name: "test"}
	b.modules = []Module{mod}

	if err := b.initModules(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mod.initDeps.Store != b.store {
		t.Error("expected Init to receive the store")
	}
}

func TestBot_InitModules_ReturnsInitError(t *testing.T) {
	b := NewBot(testConfig())

	expectedErr := errors.New("init failed")
	b.modules = []Module{&stubModule{name: "failing", initErr: expectedErr}}

	err := b.initModules()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// configurableStubModule records LoadConfig calls.
type configurableStubModule struct {
	stubModule
	configErr    error
	configLoaded bool
}

func (m *configurableStubModule) LoadConfig() error {
	m.configLoaded = true
	return m.configErr
}

func TestBot_InitModules_LoadsConfigFirst(t *testing.T) {
	b := NewBot(testConfig())
	mod := &configurableStubModule{stubModule: stubModule{name: "configurable"}}
	b.modules = []Module{mod}

	if err := b.initModules(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mod.configLoaded {
		t.Error("expected LoadConfig to be called")
	}
}

func TestBot_InitModules_ReturnsConfigError(t *testing.T) {
	b := NewBot(testConfig())
	expectedErr := errors.New("missing setting")
	mod := &configurableStubModule{
		stubModule: stubModule{name: "configurable"},
		configErr:  expectedErr,
	}
	b.modules = []Module{mod}

	err := b.initModules()
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if mod.initDeps.Store != nil {
		t.Error("expected Init not to be called")
	}
}

type readyRecorder struct{ ready int }

func (r *readyRecorder) OnShardReady(int) { r.ready++ }

func TestBot_RegisterListeners(t *testing.T) {
	b := NewBot(testConfig())
	rec := &readyRecorder{}
	b.modules = []Module{
		&stubModule{name: "a", listeners: []gateway.Listener{rec}},
		&stubModule{name: "b"},
	}

	b.registerListeners()

	listeners := b.listeners.Listeners()
	if len(listeners) != 2 {
		t.Fatalf("expected bot and module listener, got %d", len(listeners))
	}
	if listeners[0] != gateway.Listener(b) {
		t.Error("expected the bot to be registered first")
	}
}

func TestDispatchTo_FeedsShard(t *testing.T) {
	b := NewBot(testConfig())
	b.engine = gateway.NewEngine(b.store, b.listeners, gateway.WithShardCount(2))
	rec := &readyRecorder{}
	b.listeners.Register(rec)
	shard, _ := b.engine.Shard(1)
	handler := dispatchTo(shard)

	handler(nil, &discordgo.Event{
		Type:    "GUILD_CREATE",
		RawData: json.RawMessage(`{"id":"10","name":"guild"}`),
	})
	handler(nil, &discordgo.Event{
		Type:    "READY",
		RawData: json.RawMessage(`{"session_id":"s","user":{"id":"99"},"guilds":[]}`),
	})

	g, ok := b.store.Guild(10)
	if !ok {
		t.Fatal("expected guild to be cached")
	}
	if g.ShardID != 1 {
		t.Errorf("expected guild on shard 1, got %d", g.ShardID)
	}
	if rec.ready != 1 {
		t.Errorf("expected one shard ready, got %d", rec.ready)
	}
	if shard.SessionID() != "s" {
		t.Errorf("expected session s, got %q", shard.SessionID())
	}
}

func TestBot_Stop_ShutsDownModules(t *testing.T) {
	b := NewBot(testConfig())
	mod := &stubModule{name: "test", shutErr: errors.New("ignored")}
	b.modules = []Module{mod}

	if err := b.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mod.shutdown {
		t.Error("expected Shutdown to be called")
	}
}
