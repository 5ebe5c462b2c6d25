package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
)

// DefaultIntents are the gateway intents used when GATEWAY_INTENTS is unset:
// every non-privileged intent plus members and presences, which the member
// cache depends on.
const DefaultIntents = discordgo.IntentsAllWithoutPrivileged |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildPresences

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken    string `env:"DISCORD_TOKEN,notEmpty"`
	ShardCount      int    `env:"SHARD_COUNT"       envDefault:"1"`
	CacheAllMembers bool   `env:"CACHE_ALL_MEMBERS" envDefault:"false"`
	GatewayIntents  int    `env:"GATEWAY_INTENTS"`

	// Gateway commands are limited per connection.
	GatewayCommandLimit    int           `env:"GATEWAY_COMMAND_LIMIT"    envDefault:"120"`
	GatewayCommandInterval time.Duration `env:"GATEWAY_COMMAND_INTERVAL" envDefault:"60s"`

	RESTRouteLimit    int           `env:"REST_ROUTE_LIMIT"    envDefault:"5"`
	RESTRouteInterval time.Duration `env:"REST_ROUTE_INTERVAL" envDefault:"5s"`

	MetricsAddr string     `env:"METRICS_ADDR"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string     `env:"LOG_FILE"`
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing or out of range.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.ShardCount < 1 {
		errs = append(errs, fmt.Errorf("SHARD_COUNT must be at least 1, got %d", c.ShardCount))
	}
	if c.GatewayCommandLimit < 1 || c.GatewayCommandInterval <= 0 {
		errs = append(errs, errors.New("GATEWAY_COMMAND_LIMIT and GATEWAY_COMMAND_INTERVAL must be positive"))
	}
	if c.RESTRouteLimit < 1 || c.RESTRouteInterval <= 0 {
		errs = append(errs, errors.New("REST_ROUTE_LIMIT and REST_ROUTE_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

// Intents returns the configured gateway intents, or DefaultIntents.
func (c *Config) Intents() discordgo.Intent {
	if c.GatewayIntents == 0 {
		return DefaultIntents
	}
	return discordgo.Intent(c.GatewayIntents)
}
