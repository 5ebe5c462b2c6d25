package presentation

import (
	"testing"

	"github.com/sglre6355/sgrcord/internal/bot"
	"github.com/sglre6355/sgrcord/internal/cache"
	"github.com/sglre6355/sgrcord/internal/discord"
)

func TestPongListener_OnMessageCreate(t *testing.T) {
	store := cache.NewStore()
	store.SetUser(&discord.User{ID: 99})

	tests := []struct {
		name    string
		msg     *discord.Message
		replies int
	}{
		{"ping", &discord.Message{ChannelID: 20, Content: "ping", Author: &discord.User{ID: 1}}, 1},
		{"no trigger", &discord.Message{ChannelID: 20, Content: "hello", Author: &discord.User{ID: 1}}, 0},
		{"self", &discord.Message{ChannelID: 20, Content: "ping", Author: &discord.User{ID: 99}}, 0},
		{"other bot", &discord.Message{ChannelID: 20, Content: "ping", Author: &discord.User{ID: 2, Bot: true}}, 0},
		{"no author", &discord.Message{ChannelID: 20, Content: "ping"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &bot.MockSender{}
			l := NewPongListener(store, sender)

			l.OnMessageCreate(tt.msg)

			if len(sender.Sent) != tt.replies {
				t.Fatalf("expected %d replies, got %d", tt.replies, len(sender.Sent))
			}
			if tt.replies == 1 && sender.Sent[0] != (bot.SentMessage{ChannelID: 20, Content: "Pong 🏓"}) {
				t.Errorf("unexpected reply %+v", sender.Sent[0])
			}
		})
	}
}
