package logging_test

import (
	"context"
	"testing"
	"time"

	"interact-nearest/addon/logging"
	"interact-nearest/addon/logging/sinks"
)

func TestRouterDeliversToSinks(t *testing.T) {
	memory := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug

	router, err := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("router construction failed: %v", err)
	}

	router.Publish(context.Background(), logging.Event{
		Type:       "resolution.invocation",
		Invocation: 7,
		Severity:   logging.SeverityInfo,
		Actor:      logging.EntityRef{ID: "player", Kind: logging.EntityKindPlayer},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("router close failed: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 delivered event, got %d", len(events))
	}
	if events[0].Invocation != 7 {
		t.Fatalf("expected invocation 7, got %d", events[0].Invocation)
	}
	if events[0].Time.IsZero() {
		t.Fatalf("router must stamp event time")
	}

	stats := router.Stats()
	if stats.EventsTotal != 1 {
		t.Fatalf("expected 1 event counted, got %d", stats.EventsTotal)
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	memory := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn

	router, err := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("router construction failed: %v", err)
	}

	router.Publish(context.Background(), logging.Event{Type: "resolution.invocation", Severity: logging.SeverityDebug})
	router.Publish(context.Background(), logging.Event{Type: "resolution.dispatch_failed", Severity: logging.SeverityWarn})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("router close failed: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected only the warn event, got %d", len(events))
	}
	if events[0].Type != "resolution.dispatch_failed" {
		t.Fatalf("unexpected surviving event: %s", events[0].Type)
	}
}

func TestRouterStampsConfiguredFields(t *testing.T) {
	memory := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug
	cfg.Fields = map[string]any{"session": "abc123"}

	router, err := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("router construction failed: %v", err)
	}

	router.Publish(context.Background(), logging.Event{Type: "resolution.invocation", Severity: logging.SeverityInfo})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("router close failed: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Extra["session"] != "abc123" {
		t.Fatalf("expected stamped session field, got %v", events[0].Extra)
	}
}

func TestRouterIgnoresPublishAfterClose(t *testing.T) {
	memory := sinks.NewMemorySink()
	router, err := logging.NewRouter(nil, logging.DefaultConfig(), []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("router construction failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("router close failed: %v", err)
	}

	router.Publish(context.Background(), logging.Event{Type: "resolution.invocation", Severity: logging.SeverityInfo})
	if len(memory.Events()) != 0 {
		t.Fatalf("publish after close must be dropped")
	}
}

func TestWithFieldsDoesNotOverrideExisting(t *testing.T) {
	var got logging.Event
	base := logging.PublisherFunc(func(_ context.Context, event logging.Event) {
		got = event
	})

	pub := logging.WithFields(base, map[string]any{"source": "wrapper", "mode": "live"})
	pub.Publish(context.Background(), logging.Event{
		Type:  "resolution.invocation",
		Extra: map[string]any{"source": "original"},
	})

	if got.Extra["source"] != "original" {
		t.Fatalf("existing extra must win, got %v", got.Extra["source"])
	}
	if got.Extra["mode"] != "live" {
		t.Fatalf("missing stamped field, got %v", got.Extra)
	}
}

func TestMetricsCounters(t *testing.T) {
	metrics := logging.NewMetrics()
	metrics.TelemetryAdd("interact.invocations", 2)
	metrics.TelemetryAdd("interact.invocations", 1)
	metrics.TelemetryStore("interact.no_candidate", 5)

	if got := metrics.TelemetryValue("interact.invocations"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	snapshot := metrics.TelemetrySnapshot()
	if snapshot["interact.no_candidate"] != 5 {
		t.Fatalf("expected stored value 5, got %v", snapshot)
	}
}
