package tournament

import (
	"context"
	"time"
)

// ChangeEvent announces that the tournament state was recomputed after a write.
type ChangeEvent struct {
	ID         string
	Reason     string
	Version    int64
	OccurredAt time.Time
	Teams      int
	Matches    int
	Completed  int
}

// ChangePublisher delivers change events to interested parties.
type ChangePublisher interface {
	PublishChange(ctx context.Context, event ChangeEvent) error
}
