package presentation

import (
	"github.com/sglre6355/sgrcord/internal/bot"
	"github.com/sglre6355/sgrcord/internal/cache"
	"github.com/sglre6355/sgrcord/internal/discord"
	"github.com/sglre6355/sgrcord/internal/gateway"
	"github.com/sglre6355/sgrcord/internal/modules/ping/application"
)

// PongListener answers ping messages.
type PongListener struct {
	interactor *application.PongInteractor
	store      *cache.Store
	sender     bot.MessageSender
}

var _ gateway.MessageCreateListener = (*PongListener)(nil)

// NewPongListener creates a new PongListener.
func NewPongListener(store *cache.Store, sender bot.MessageSender) *PongListener {
	return &PongListener{
		interactor: application.NewPongInteractor(),
		store:      store,
		sender:     sender,
	}
}

// OnMessageCreate replies through the rate-limited sender.
func (l *PongListener) OnMessageCreate(m *discord.Message) {
	// Ignore webhooks and other bots, including ourselves
	if m.Author == nil || m.Author.Bot {
		return
	}
	if self := l.store.User(); self != nil && m.Author.ID == self.ID {
		return
	}

	result := l.interactor.Execute(m.Content)
	if result.ShouldRespond {
		l.sender.SendMessage(m.ChannelID, result.Response, nil)
	}
}
