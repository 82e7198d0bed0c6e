package eventbus

import (
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
	"github.com/valyala/bytebufferpool"
)

const ChangeEventType = "tournament.changed"

type changeEnvelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Reason     string    `json:"reason"`
	Version    int64     `json:"version"`
	OccurredAt time.Time `json:"occurredAt"`
	Teams      int       `json:"teams"`
	Matches    int       `json:"matches"`
	Completed  int       `json:"completed"`
}

// encodeChange renders the event as a single JSON document. The returned
// slice is owned by the caller.
func encodeChange(event tournament.ChangeEvent) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	envelope := changeEnvelope{
		ID:         event.ID,
		Type:       ChangeEventType,
		Reason:     event.Reason,
		Version:    event.Version,
		OccurredAt: event.OccurredAt.UTC(),
		Teams:      event.Teams,
		Matches:    event.Matches,
		Completed:  event.Completed,
	}
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(envelope); err != nil {
		return nil, crerr.Wrap(err, "encode change event")
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}
