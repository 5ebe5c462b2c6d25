package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sglre6355/sgrcord/internal/discord"
	"github.com/sglre6355/sgrcord/internal/metrics"
)

// Shard is the dispatch entry point of one gateway connection. Events of a
// shard must be dispatched from a single goroutine in arrival order;
// different shards may dispatch concurrently.
type Shard struct {
	id     int
	engine *Engine

	mu        sync.RWMutex
	sessionID string
}

// ID returns the shard id.
func (s *Shard) ID() int {
	return s.id
}

// SessionID returns the session id received with the last READY.
func (s *Shard) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

func (s *Shard) setSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = id
}

// DispatchRaw decodes a raw dispatch payload and dispatches it.
func (s *Shard) DispatchRaw(name string, raw json.RawMessage) {
	env, err := discord.ParseEnvelope(raw)
	if err != nil {
		slog.Warn("dropped undecodable event", "event", name, "shard", s.id, "error", err)
		metrics.EventsDropped.WithLabelValues(name, metrics.ReasonMalformed).Inc()
		return
	}
	s.Dispatch(name, env)
}

// Dispatch applies one event to the cache and notifies listeners. Failures
// are logged and never returned: a bad event is skipped and the next one is
// processed normally.
func (s *Shard) Dispatch(name string, env discord.Envelope) {
	handle, ok := handlers[Event(name)]
	if !ok {
		slog.Debug("ignored unknown event", "event", name, "shard", s.id)
		metrics.EventsDropped.WithLabelValues(name, metrics.ReasonUnknown).Inc()
		return
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered from panic while dispatching event",
				"event", name,
				"shard", s.id,
				"panic", r,
			)
			metrics.EventsDropped.WithLabelValues(name, metrics.ReasonMalformed).Inc()
		}
	}()

	err := handle(s, env)
	switch {
	case err == nil:
		metrics.EventsDispatched.WithLabelValues(name).Inc()
		metrics.EventDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	case errors.Is(err, errStale):
		slog.Debug("ignored stale event", "event", name, "shard", s.id, "error", err)
		metrics.EventsDropped.WithLabelValues(name, metrics.ReasonStale).Inc()
	default:
		slog.Warn("dropped malformed event", "event", name, "shard", s.id, "error", err)
		metrics.EventsDropped.WithLabelValues(name, metrics.ReasonMalformed).Inc()
	}
}
