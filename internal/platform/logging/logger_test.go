package logging

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLogger_KeyValuesBecomeFields(t *testing.T) {
	t.Parallel()

	logger, logs := observed(LevelDebug)
	logger.Named("state").With("component", "refresh").Info("refreshed",
		"teams", 4,
		"error", errors.New("boom"),
		42, "no key",
		"dangling",
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.LoggerName != "state" {
		t.Fatalf("unexpected logger name %q", entry.LoggerName)
	}
	fields := entry.ContextMap()
	if fields["component"] != "refresh" || fields["teams"] != int64(4) {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if fields["error"] != "boom" {
		t.Fatalf("error field = %v", fields["error"])
	}
	if fields["arg"] != "no key" {
		t.Fatalf("non-string key should fall back to arg, got %+v", fields)
	}
	if v, ok := fields["dangling"]; !ok || v != nil {
		t.Fatalf("dangling key should log nil, got %+v", fields)
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	t.Parallel()

	logger, logs := observed(LevelInfo)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01},
		SpanID:     trace.SpanID{0x02},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.WarnContext(ctx, "slow query")
	logger.InfoContext(context.Background(), "no span")
	logger.Debug("filtered out")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != sc.TraceID().String() || fields["span_id"] != sc.SpanID().String() {
		t.Fatalf("missing trace fields: %+v", fields)
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Fatalf("trace_id should be absent without a span")
	}
}

func TestLogger_NilAndDefault(t *testing.T) {
	var nilLogger *Logger
	nilLogger.Info("ignored")
	if err := nilLogger.Sync(); err != nil {
		t.Fatalf("sync on nil logger: %v", err)
	}

	logger, logs := observed(LevelInfo)
	SetDefault(logger)
	t.Cleanup(func() { SetDefault(nil) })

	nilLogger.Info("routed to default")
	if logs.Len() != 1 {
		t.Fatalf("nil logger should use the default, got %d entries", logs.Len())
	}
}
