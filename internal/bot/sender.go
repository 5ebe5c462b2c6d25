package bot

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrcord/internal/ratelimit"
)

// MessageSender sends messages to channels.
// This interface enables testing listeners without a live Discord connection.
type MessageSender interface {
	// SendMessage queues content for channelID. Delivery is asynchronous;
	// done, when not nil, receives the result.
	SendMessage(channelID snowflake.ID, content string, done func(error))
}

// messageSession is the part of *discordgo.Session used to send messages.
type messageSession interface {
	ChannelMessageSend(
		channelID string,
		content string,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// RateLimitedSender sends messages through a per-channel bucket.
type RateLimitedSender struct {
	session messageSession
	limiter *ratelimit.Limiter
}

var _ MessageSender = (*RateLimitedSender)(nil)

// NewRateLimitedSender creates a RateLimitedSender over session.
func NewRateLimitedSender(session messageSession, limiter *ratelimit.Limiter) *RateLimitedSender {
	return &RateLimitedSender{
		session: session,
		limiter: limiter,
	}
}

// SendMessage implements MessageSender.
func (s *RateLimitedSender) SendMessage(channelID snowflake.ID, content string, done func(error)) {
	s.limiter.Enqueue(messageRoute(channelID), func() {
		_, err := s.session.ChannelMessageSend(channelID.String(), content)
		if err != nil {
			err = fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
			slog.Warn("failed to send message", "channel_id", channelID, "error", err)
		}
		if done != nil {
			done(err)
		}
	})
}

// messageRouteLabel is the metric label shared by every channel message route.
const messageRouteLabel = "channels/messages"

func messageRoute(channelID snowflake.ID) string {
	return "channels/" + channelID.String() + "/messages"
}

// routeLabel collapses per-channel routes into one metric label.
func routeLabel(route string) string {
	if strings.HasPrefix(route, "channels/") {
		return messageRouteLabel
	}
	return route
}

// SentMessage is a message recorded by MockSender.
type SentMessage struct {
	ChannelID snowflake.ID
	Content   string
}

// MockSender is a test double for MessageSender.
type MockSender struct {
	Sent []SentMessage
	Err  error
}

// SendMessage records the message and reports Err synchronously.
func (m *MockSender) SendMessage(channelID snowflake.ID, content string, done func(error)) {
	m.Sent = append(m.Sent, SentMessage{ChannelID: channelID, Content: content})
	if done != nil {
		done(m.Err)
	}
}
