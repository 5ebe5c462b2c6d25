package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/sgrcord/internal/cache"
	"github.com/sglre6355/sgrcord/internal/discord"
	"github.com/sglre6355/sgrcord/internal/gateway"
	"github.com/sglre6355/sgrcord/internal/ratelimit"
)

// identifyInterval is the minimum spacing between two shard identifies.
const identifyInterval = 5 * time.Second

// Bot manages the gateway connections and module coordination.
type Bot struct {
	config    *Config
	store     *cache.Store
	listeners *gateway.Registry
	limiter   *ratelimit.Limiter
	identify  *ratelimit.Bucket
	engine    *gateway.Engine
	sessions  []*discordgo.Session
	modules   []Module
}

var _ gateway.ReadyListener = (*Bot)(nil)

// NewBot creates a new Bot instance with the given configuration.
func NewBot(cfg *Config) *Bot {
	opts := make([]ratelimit.LimiterOption, 0, cfg.ShardCount+1)
	opts = append(opts, ratelimit.WithRouteLabel(routeLabel))
	for shardID := range cfg.ShardCount {
		opts = append(opts, ratelimit.WithRouteRule(gatewayRoute(shardID), ratelimit.Rule{
			Limit:    cfg.GatewayCommandLimit,
			Interval: cfg.GatewayCommandInterval,
		}))
	}
	restRule := ratelimit.Rule{
		Limit:    cfg.RESTRouteLimit,
		Interval: cfg.RESTRouteInterval,
	}

	return &Bot{
		config:    cfg,
		store:     cache.NewStore(),
		listeners: gateway.NewRegistry(),
		limiter:   ratelimit.NewLimiter(restRule, opts...),
		identify:  ratelimit.NewBucket("identify", 1, identifyInterval),
		modules:   make([]Module, 0),
	}
}

// LoadModules loads modules from the global registry.
func (b *Bot) LoadModules() {
	b.modules = Modules()
}

// Store returns the cache shared by every shard.
func (b *Bot) Store() *cache.Store {
	return b.store
}

// Start creates one gateway session per shard, initializes modules and
// opens the connections.
func (b *Bot) Start() error {
	sessions := make([]*discordgo.Session, b.config.ShardCount)
	for shardID := range sessions {
		session, err := b.newSession(shardID)
		if err != nil {
			return fmt.Errorf("failed to create Discord session for shard %d: %w", shardID, err)
		}
		sessions[shardID] = session
	}
	b.sessions = sessions
	b.engine = b.newEngine()

	// Initialize modules
	if err := b.initModules(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}

	b.registerListeners()

	for shardID, session := range b.sessions {
		shard, _ := b.engine.Shard(shardID)
		session.AddHandler(dispatchTo(shard))
	}

	if err := b.openSessions(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() error {
	// Shutdown modules
	for _, mod := range b.modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}

	var errs []error
	for shardID, session := range b.sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close shard %d: %w", shardID, err))
		}
	}
	return errors.Join(errs...)
}

// OnReady logs once every shard has connected.
func (b *Bot) OnReady(self *discord.User) {
	slog.Info("started bot",
		"user_id", self.ID,
		"username", self.Username,
		"shard_count", b.config.ShardCount,
	)
}

// newSession creates an unopened session for shardID. The session keeps no
// state of its own and delivers events on its read goroutine.
func (b *Bot) newSession(shardID int) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + b.config.DiscordToken)
	if err != nil {
		return nil, err
	}
	session.ShardID = shardID
	session.ShardCount = b.config.ShardCount
	session.StateEnabled = false
	session.SyncEvents = true
	session.Identify.Intents = b.config.Intents()
	return session, nil
}

func (b *Bot) newEngine() *gateway.Engine {
	requesters := make([]memberSession, len(b.sessions))
	for i, s := range b.sessions {
		requesters[i] = s
	}
	presences := b.config.Intents()&discordgo.IntentsGuildPresences != 0

	return gateway.NewEngine(b.store, b.listeners,
		gateway.WithShardCount(b.config.ShardCount),
		gateway.WithCacheAllMembers(b.config.CacheAllMembers),
		gateway.WithMemberRequester(NewGatewayMemberRequester(requesters, b.limiter, presences)),
	)
}

// initModules initializes all loaded modules.
func (b *Bot) initModules() error {
	deps := ModuleDependencies{
		Store: b.store,
	}
	if len(b.sessions) > 0 {
		deps.Sender = NewRateLimitedSender(b.sessions[0], b.limiter)
	}

	for _, mod := range b.modules {
		if cm, ok := mod.(ConfigurableModule); ok {
			if err := cm.LoadConfig(); err != nil {
				return fmt.Errorf("failed to load %s module config: %w", mod.Name(), err)
			}
		}
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		slog.Debug("initialized module", "module", mod.Name())
	}

	moduleNames := make([]string, len(b.modules))
	for i, mod := range b.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// registerListeners registers the bot and all module listeners.
func (b *Bot) registerListeners() {
	b.listeners.Register(b)
	for _, mod := range b.modules {
		b.listeners.Register(mod.Listeners()...)
	}
	slog.Debug("registered listeners", "count", b.listeners.Len())
}

// openSessions opens the shard connections one identify at a time.
func (b *Bot) openSessions() error {
	for shardID, session := range b.sessions {
		opened := make(chan error, 1)
		b.identify.Enqueue(func() {
			opened <- session.Open()
		})
		if err := <-opened; err != nil {
			return fmt.Errorf("failed to open shard %d: %w", shardID, err)
		}
		slog.Info("opened gateway connection", "shard", shardID, "shard_count", len(b.sessions))
	}
	return nil
}

// dispatchTo forwards every raw gateway dispatch of a session to shard.
func dispatchTo(shard *gateway.Shard) func(*discordgo.Session, *discordgo.Event) {
	return func(_ *discordgo.Session, e *discordgo.Event) {
		shard.DispatchRaw(e.Type, e.RawData)
	}
}
