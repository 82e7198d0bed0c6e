package eventbus

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
	"github.com/riskibarqy/tournament-admin/internal/platform/resilience"
)

type fakeConn struct {
	mu         sync.Mutex
	msgs       []*nats.Msg
	publishErr error
}

func (c *fakeConn) PublishMsg(msg *nats.Msg) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeConn) FlushTimeout(time.Duration) error { return nil }

func sampleEvent() tournament.ChangeEvent {
	return tournament.ChangeEvent{
		ID:         "evt-7",
		Reason:     "match.completed",
		Version:    7,
		OccurredAt: time.Date(2026, 7, 1, 21, 0, 0, 0, time.FixedZone("WIB", 7*3600)),
		Teams:      8,
		Matches:    12,
		Completed:  3,
	}
}

func TestEncodeChange(t *testing.T) {
	t.Parallel()

	raw, err := encodeChange(sampleEvent())
	if err != nil {
		t.Fatalf("encode change: %v", err)
	}

	var decoded map[string]any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode change: %v", err)
	}
	if decoded["type"] != ChangeEventType || decoded["reason"] != "match.completed" {
		t.Fatalf("unexpected envelope: %s", raw)
	}
	if decoded["occurredAt"] != "2026-07-01T14:00:00Z" {
		t.Fatalf("expected UTC timestamp, got %v", decoded["occurredAt"])
	}
}

func TestNATSPublisher_PublishChange(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	publisher := newNATSPublisher(conn, NATSConfig{Subject: "league.changed"}, logging.NewNop(), clockwork.NewFakeClock())

	if err := publisher.PublishChange(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish change: %v", err)
	}
	if len(conn.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(conn.msgs))
	}
	msg := conn.msgs[0]
	if msg.Subject != "league.changed" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if msg.Header.Get(headerMsgID) != "evt-7" || msg.Header.Get(headerVersion) != "7" {
		t.Fatalf("unexpected headers: %v", msg.Header)
	}
	if !strings.Contains(string(msg.Data), `"completed":3`) {
		t.Fatalf("unexpected payload: %s", msg.Data)
	}
}

func TestNATSPublisher_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	conn := &fakeConn{publishErr: errors.New("nats: connection closed")}
	publisher := newNATSPublisher(conn, NATSConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop(), clock)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := publisher.PublishChange(ctx, sampleEvent()); err == nil {
			t.Fatalf("attempt %d: expected publish error", i)
		}
	}

	err := publisher.PublishChange(ctx, sampleEvent())
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}

	conn.mu.Lock()
	conn.publishErr = nil
	conn.mu.Unlock()
	clock.Advance(time.Minute)
	if err := publisher.PublishChange(ctx, sampleEvent()); err != nil {
		t.Fatalf("expected half-open trial to pass, got %v", err)
	}
	if publisher.breaker.State() != resilience.CircuitStateClosed {
		t.Fatalf("expected closed circuit, got %s", publisher.breaker.State())
	}
}

func TestLogPublisher(t *testing.T) {
	t.Parallel()

	if err := NewLogPublisher(nil).PublishChange(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("log publisher: %v", err)
	}
}
