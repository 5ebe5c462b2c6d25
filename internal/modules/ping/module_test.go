package ping

import (
	"testing"

	"github.com/sglre6355/sgrcord/internal/bot"
	"github.com/sglre6355/sgrcord/internal/cache"
	"github.com/sglre6355/sgrcord/internal/gateway"
)

func TestPingModule_RegistersListener(t *testing.T) {
	m := &PingModule{}
	if err := m.Init(bot.ModuleDependencies{Store: cache.NewStore(), Sender: &bot.MockSender{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listeners := m.Listeners()
	if len(listeners) != 1 {
		t.Fatalf("expected 1 listener, got %d", len(listeners))
	}
	if _, ok := listeners[0].(gateway.MessageCreateListener); !ok {
		t.Error("expected a message create listener")
	}
}

func TestPingModule_RegisteredGlobally(t *testing.T) {
	for _, m := range bot.Modules() {
		if m.Name() == "ping" {
			return
		}
	}
	t.Error("expected ping module in the global registry")
}
