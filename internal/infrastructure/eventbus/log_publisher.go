package eventbus

import (
	"context"

	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
)

// LogPublisher writes change events to the log instead of a broker.
type LogPublisher struct {
	logger *logging.Logger
}

func NewLogPublisher(logger *logging.Logger) *LogPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishChange(ctx context.Context, event tournament.ChangeEvent) error {
	p.logger.InfoContext(ctx, "tournament changed",
		"event_id", event.ID,
		"reason", event.Reason,
		"version", event.Version,
		"teams", event.Teams,
		"matches", event.Matches,
		"completed", event.Completed,
	)
	return nil
}
