package ratelimit

import (
	"slices"
	"sync"
	"time"
)

// Rule is the limit applied to one route.
type Rule struct {
	Limit    int
	Interval time.Duration
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithRouteRule sets the rule for a single route.
func WithRouteRule(route string, rule Rule) LimiterOption {
	return func(l *Limiter) {
		l.rules[route] = rule
	}
}

// WithBucketOptions applies opts to every bucket the limiter creates.
func WithBucketOptions(opts ...BucketOption) LimiterOption {
	return func(l *Limiter) {
		l.bucketOpts = append(l.bucketOpts, opts...)
	}
}

// WithRouteLabel maps each route to the metric label of its bucket.
func WithRouteLabel(label func(route string) string) LimiterOption {
	return func(l *Limiter) {
		l.routeLabel = label
	}
}

// Limiter owns one Bucket per route. Buckets are created on first use and
// live as long as the limiter.
type Limiter struct {
	defaultRule Rule
	rules       map[string]Rule
	bucketOpts  []BucketOption
	routeLabel  func(string) string

	mu      sync.Mutex
	buckets map[string]*Bucket
}

// NewLimiter creates a Limiter applying def to routes without their own rule.
func NewLimiter(def Rule, opts ...LimiterOption) *Limiter {
	l := &Limiter{
		defaultRule: def,
		rules:       make(map[string]Rule),
		buckets:     make(map[string]*Bucket),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Bucket returns the bucket for route, creating it if needed.
func (l *Limiter) Bucket(route string) *Bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[route]; ok {
		return b
	}
	rule, ok := l.rules[route]
	if !ok {
		rule = l.defaultRule
	}
	opts := l.bucketOpts
	if l.routeLabel != nil {
		opts = append(slices.Clip(opts), WithMetricLabel(l.routeLabel(route)))
	}
	b := NewBucket(route, rule.Limit, rule.Interval, opts...)
	l.buckets[route] = b
	return b
}

// Enqueue queues item on the bucket of route.
func (l *Limiter) Enqueue(route string, item func()) {
	l.Bucket(route).Enqueue(item)
}

// Take consumes n tokens from the bucket of route.
func (l *Limiter) Take(route string, n int) {
	l.Bucket(route).Take(n)
}
