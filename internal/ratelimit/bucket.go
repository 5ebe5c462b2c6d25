// Package ratelimit paces outbound work with token buckets.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sglre6355/sgrcord/internal/metrics"
)

// DefaultRetryPadding is added to the refill deadline before an exhausted
// bucket retries.
const DefaultRetryPadding = time.Second

// BucketOption configures a Bucket.
type BucketOption func(*Bucket)

// WithRetryPadding overrides DefaultRetryPadding.
func WithRetryPadding(d time.Duration) BucketOption {
	return func(b *Bucket) {
		b.padding = d
	}
}

// WithMetricLabel sets the label the bucket reports its metrics under.
// Buckets created per resource share one label to keep the series bounded.
func WithMetricLabel(label string) BucketOption {
	return func(b *Bucket) {
		b.label = label
	}
}

// Bucket allows at most limit items to start per interval. Items wait in a
// FIFO queue and run one at a time on the bucket's own worker, so a slow
// item delays the ones behind it but never the caller.
type Bucket struct {
	name     string
	label    string
	limit    int
	interval time.Duration
	padding  time.Duration

	mu        sync.Mutex
	tokens    int
	lastReset time.Time
	queue     []func()

	worker worker
}

// NewBucket creates a full bucket.
func NewBucket(name string, limit int, interval time.Duration, opts ...BucketOption) *Bucket {
	b := &Bucket{
		name:      name,
		label:     name,
		limit:     limit,
		interval:  interval,
		padding:   DefaultRetryPadding,
		tokens:    limit,
		lastReset: time.Now(),
		worker:    worker{name: name},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the bucket's name.
func (b *Bucket) Name() string {
	return b.name
}

// MetricLabel returns the label the bucket's metrics are reported under.
func (b *Bucket) MetricLabel() string {
	return b.label
}

// Enqueue appends item to the queue and runs it as soon as a token is
// available. It never blocks on the rate limit.
func (b *Bucket) Enqueue(item func()) {
	b.mu.Lock()
	b.queue = append(b.queue, item)
	metrics.BucketQueueDepth.WithLabelValues(b.label).Set(float64(len(b.queue)))
	b.mu.Unlock()

	b.check()
}

// Take consumes n tokens ahead of time, for work sent outside the queue.
// The balance may go negative; queued items then wait for the next refill.
func (b *Bucket) Take(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	b.tokens -= n
}

// Len returns the number of queued items.
func (b *Bucket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.queue)
}

// Tokens returns the current balance without refilling.
func (b *Bucket) Tokens() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.tokens
}

// check is the only place items leave the queue. Every Enqueue starts one
// chain of checks and every chain ends with exactly one dequeue, so the
// queue holds at least one item whenever an item is taken from it.
func (b *Bucket) check() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.refill(now)

	if b.tokens <= 0 {
		wait := b.lastReset.Add(b.interval + b.padding).Sub(now)
		slog.Debug("rate limit bucket exhausted", "bucket", b.name, "retry_in", wait, "queued", len(b.queue))
		metrics.BucketDeferrals.WithLabelValues(b.label).Inc()
		time.AfterFunc(wait, func() {
			b.worker.submit(b.check)
		})
		return
	}

	item := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	b.tokens--
	metrics.BucketQueueDepth.WithLabelValues(b.label).Set(float64(len(b.queue)))

	b.worker.submit(item)
}

// refill must be called with mu held.
func (b *Bucket) refill(now time.Time) {
	if now.Sub(b.lastReset) >= b.interval {
		b.tokens = b.limit
		b.lastReset = now
	}
}
