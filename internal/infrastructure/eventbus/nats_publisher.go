package eventbus

import (
	"context"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
	"github.com/riskibarqy/tournament-admin/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	headerMsgID     = "Nats-Msg-Id"
	headerEventType = "Event-Type"
	headerVersion   = "State-Version"
)

type NATSConfig struct {
	URL            string
	Subject        string
	ClientName     string
	Timeout        time.Duration
	MaxReconnects  int
	ReconnectWait  time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:            nats.DefaultURL,
		Subject:        "tournament.changed",
		ClientName:     "tournament-admin",
		Timeout:        2 * time.Second,
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
		CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
	}
}

// msgConn is the part of *nats.Conn the publisher needs.
type msgConn interface {
	PublishMsg(msg *nats.Msg) error
	FlushTimeout(timeout time.Duration) error
}

type NATSPublisher struct {
	conn    msgConn
	nc      *nats.Conn
	subject string
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

// NewNATSPublisher connects to NATS; reconnects are handled by the client.
func NewNATSPublisher(cfg NATSConfig, logger *logging.Logger, clock clockwork.Clock) (*NATSPublisher, error) {
	cfg = normalizeNATSConfig(cfg)
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("nats")

	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.Timeout(cfg.Timeout),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			logger.Info("nats reconnected", "url", conn.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("nats async error", "error", err)
		}),
	)
	if err != nil {
		return nil, crerr.Wrapf(err, "connect nats url=%s", cfg.URL)
	}

	p := newNATSPublisher(nc, cfg, logger, clock)
	p.nc = nc
	return p, nil
}

func newNATSPublisher(conn msgConn, cfg NATSConfig, logger *logging.Logger, clock clockwork.Clock) *NATSPublisher {
	cfg = normalizeNATSConfig(cfg)
	if logger == nil {
		logger = logging.Default()
	}
	return &NATSPublisher{
		conn:    conn,
		subject: cfg.Subject,
		timeout: cfg.Timeout,
		breaker: resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker, clock),
		logger:  logger,
	}
}

func (p *NATSPublisher) PublishChange(ctx context.Context, event tournament.ChangeEvent) error {
	data, err := encodeChange(event)
	if err != nil {
		return err
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("messaging.system", "nats"),
			attribute.String("messaging.destination", p.subject),
			attribute.String("messaging.message_id", event.ID),
			attribute.Int("messaging.message_body.size", len(data)),
		)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set(headerMsgID, event.ID)
	msg.Header.Set(headerEventType, ChangeEventType)
	msg.Header.Set(headerVersion, strconv.FormatInt(event.Version, 10))

	err = p.breaker.Do(func() error {
		if err := p.conn.PublishMsg(msg); err != nil {
			return crerr.Wrapf(err, "publish change event subject=%s", p.subject)
		}
		if err := p.conn.FlushTimeout(p.timeout); err != nil {
			return crerr.Wrapf(err, "flush change event subject=%s", p.subject)
		}
		return nil
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		p.logger.WarnContext(ctx, "nats circuit breaker rejected publish", "state", p.breaker.State(), "event_id", event.ID)
		return crerr.Wrap(err, "nats publisher is temporarily unavailable")
	}
	if err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "change event published", "subject", p.subject, "event_id", event.ID, "reason", event.Reason)
	return nil
}

// Close drains pending messages before closing the connection.
func (p *NATSPublisher) Close() error {
	if p == nil || p.nc == nil {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		return crerr.Wrap(err, "drain nats connection")
	}
	return nil
}

func normalizeNATSConfig(cfg NATSConfig) NATSConfig {
	defaults := DefaultNATSConfig()
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = defaults.URL
	}
	if strings.TrimSpace(cfg.Subject) == "" {
		cfg.Subject = defaults.Subject
	}
	if strings.TrimSpace(cfg.ClientName) == "" {
		cfg.ClientName = defaults.ClientName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = defaults.ReconnectWait
	}
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = defaults.MaxReconnects
	}
	return cfg
}
