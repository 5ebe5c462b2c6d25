package ratelimit

import (
	"strings"
	"testing"
	"time"
)

func TestLimiter_Bucket_SameRouteSameBucket(t *testing.T) {
	l := NewLimiter(Rule{Limit: 5, Interval: time.Second})

	a := l.Bucket("channels/1/messages")
	b := l.Bucket("channels/1/messages")
	c := l.Bucket("channels/2/messages")

	if a != b {
		t.Error("expected the same bucket for the same route")
	}
	if a == c {
		t.Error("expected different buckets for different routes")
	}
}

func TestLimiter_RouteRule(t *testing.T) {
	l := NewLimiter(
		Rule{Limit: 5, Interval: time.Second},
		WithRouteRule("gateway", Rule{Limit: 120, Interval: time.Minute}),
	)

	if got := l.Bucket("gateway").Tokens(); got != 120 {
		t.Errorf("expected 120 tokens for gateway, got %d", got)
	}
	if got := l.Bucket("other").Tokens(); got != 5 {
		t.Errorf("expected 5 tokens for default route, got %d", got)
	}
}

func TestLimiter_Take(t *testing.T) {
	l := NewLimiter(Rule{Limit: 5, Interval: time.Minute})

	l.Take("route", 2)
	if got := l.Bucket("route").Tokens(); got != 3 {
		t.Errorf("expected 3 tokens, got %d", got)
	}
}

func TestLimiter_Enqueue(t *testing.T) {
	l := NewLimiter(Rule{Limit: 1, Interval: time.Minute}, WithBucketOptions(WithRetryPadding(0)))
	done := make(chan struct{})

	l.Enqueue("route", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for item")
	}
	if got := l.Bucket("route").Tokens(); got != 0 {
		t.Errorf("expected 0 tokens, got %d", got)
	}
}

func TestLimiter_RouteLabel(t *testing.T) {
	label := func(route string) string {
		if strings.HasPrefix(route, "channels/") {
			return "channels"
		}
		return route
	}
	l := NewLimiter(Rule{Limit: 5, Interval: time.Second}, WithRouteLabel(label))

	a := l.Bucket("channels/1/messages")
	b := l.Bucket("channels/2/messages")
	gw := l.Bucket("gateway/0")

	if a == b {
		t.Error("expected one bucket per route")
	}
	if a.MetricLabel() != "channels" || b.MetricLabel() != "channels" {
		t.Errorf("expected shared label, got %q and %q", a.MetricLabel(), b.MetricLabel())
	}
	if gw.MetricLabel() != "gateway/0" {
		t.Errorf("expected gateway/0, got %q", gw.MetricLabel())
	}
	if a.Name() != "channels/1/messages" {
		t.Errorf("expected bucket name to stay the route, got %q", a.Name())
	}
}

func TestLimiter_DefaultLabelIsRoute(t *testing.T) {
	l := NewLimiter(Rule{Limit: 5, Interval: time.Second})

	if got := l.Bucket("channels/1/messages").MetricLabel(); got != "channels/1/messages" {
		t.Errorf("expected route as label, got %q", got)
	}
}
