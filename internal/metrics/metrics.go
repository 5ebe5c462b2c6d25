// Package metrics holds the Prometheus collectors shared by the gateway and
// the rate limiter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons an event is dropped at the dispatch boundary.
const (
	ReasonUnknown   = "unknown"
	ReasonMalformed = "malformed"
	ReasonStale     = "stale"
)

var (
	EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sgrcord_gateway_events_dispatched_total",
		Help: "Gateway events handled, by event name",
	}, []string{"event"})

	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sgrcord_gateway_events_dropped_total",
		Help: "Gateway events dropped before reaching listeners",
	}, []string{"event", "reason"})

	EventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "sgrcord_gateway_event_duration_seconds",
		Help: "Time spent decoding, caching and notifying one event",
		// 12 buckets from 10µs to 1s.
		Buckets: prometheus.ExponentialBucketsRange(0.00001, 1, 12),
	}, []string{"event"})

	BucketQueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sgrcord_ratelimit_queue_depth",
		Help: "Items waiting in a rate limit bucket",
	}, []string{"bucket"})

	BucketDeferrals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sgrcord_ratelimit_deferrals_total",
		Help: "Times a bucket ran out of tokens and scheduled a retry",
	}, []string{"bucket"})

	CachedGuilds = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sgrcord_cache_guilds",
		Help: "Guilds held in the cache, by availability",
	}, []string{"state"})
)
