package bot

import (
	"github.com/sglre6355/sgrcord/internal/cache"
	"github.com/sglre6355/sgrcord/internal/gateway"
)

// ModuleDependencies provides dependencies that modules may need during initialization.
type ModuleDependencies struct {
	Store  *cache.Store
	Sender MessageSender
}

// Module defines the interface that all bot modules must implement.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// Listeners returns the gateway listeners this module provides. Each
	// listener implements one or more of the gateway listener interfaces.
	Listeners() []gateway.Listener

	// Init initializes the module with the provided dependencies.
	Init(deps ModuleDependencies) error

	// Shutdown gracefully shuts down the module.
	Shutdown() error
}

// ConfigurableModule is an optional interface for modules that need configuration.
// Modules implementing this interface will have LoadConfig called before Init.
type ConfigurableModule interface {
	// LoadConfig loads and validates module-specific configuration.
	// Called before Init() and before the gateway connection is established.
	// Should return an error if required configuration is missing or invalid.
	LoadConfig() error
}
