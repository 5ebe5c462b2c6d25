package ping

import (
	"github.com/sglre6355/sgrcord/internal/bot"
	"github.com/sglre6355/sgrcord/internal/gateway"
	"github.com/sglre6355/sgrcord/internal/modules/ping/presentation"
)

func init() {
	bot.Register(&PingModule{})
}

// PingModule answers ping messages.
type PingModule struct {
	pongListener *presentation.PongListener
}

// Name returns the module name.
func (m *PingModule) Name() string {
	return "ping"
}

// Listeners returns the gateway listeners for this module.
func (m *PingModule) Listeners() []gateway.Listener {
	return []gateway.Listener{m.pongListener}
}

// Init initializes the module.
func (m *PingModule) Init(deps bot.ModuleDependencies) error {
	m.pongListener = presentation.NewPongListener(deps.Store, deps.Sender)
	return nil
}

// Shutdown cleans up module resources.
func (m *PingModule) Shutdown() error {
	return nil
}
