package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
	"github.com/riskibarqy/tournament-admin/internal/platform/id"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
	"github.com/riskibarqy/tournament-admin/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

// State is one consistent tournament snapshot plus the figures derived from it.
type State struct {
	Version  int64
	Snapshot tournament.Snapshot
	Views    tournament.Views
}

func (s State) Directory() tournament.Directory {
	return s.Snapshot.Directory()
}

// StateController owns the in-memory snapshot. Reads share the last computed
// state; every successful write calls Refresh so views never lag behind storage.
type StateController struct {
	teamRepo  team.Repository
	matchRepo match.Repository
	publisher tournament.ChangePublisher
	rule      tournament.SuspensionRule
	ids       id.Generator
	clock     clockwork.Clock
	logger    *logging.Logger

	mu        sync.RWMutex
	state     *State
	version   int64
	refreshMu sync.Mutex
	initial   resilience.SingleFlight[State]
}

type StateControllerOption func(*StateController)

func WithChangePublisher(publisher tournament.ChangePublisher) StateControllerOption {
	return func(c *StateController) {
		c.publisher = publisher
	}
}

func WithSuspensionRule(rule tournament.SuspensionRule) StateControllerOption {
	return func(c *StateController) {
		c.rule = rule
	}
}

func WithClock(clock clockwork.Clock) StateControllerOption {
	return func(c *StateController) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithEventIDs(ids id.Generator) StateControllerOption {
	return func(c *StateController) {
		if ids != nil {
			c.ids = ids
		}
	}
}

func NewStateController(teamRepo team.Repository, matchRepo match.Repository, logger *logging.Logger, opts ...StateControllerOption) *StateController {
	if logger == nil {
		logger = logging.Default()
	}
	c := &StateController{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		rule:      tournament.DefaultSuspensionRule(),
		ids:       id.NewUUIDGenerator(),
		clock:     clockwork.NewRealClock(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the last computed state, loading it on first use.
// Concurrent first loads share one storage round trip, and a first load never
// overlaps a Refresh, so it cannot store a snapshot older than a write's.
func (c *StateController) Current(ctx context.Context) (State, error) {
	if st, ok := c.cached(); ok {
		return st, nil
	}

	loaded, err, _ := c.initial.Do("state", func() (State, error) {
		c.refreshMu.Lock()
		defer c.refreshMu.Unlock()
		if st, ok := c.cached(); ok {
			return st, nil
		}
		return c.load(ctx)
	})
	return loaded, err
}

func (c *StateController) cached() (State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == nil {
		return State{}, false
	}
	return *c.state, true
}

// Refresh reloads everything from storage, recomputes the views and publishes a
// change event. A failed reload drops the cached state so the next read retries.
func (c *StateController) Refresh(ctx context.Context, reason string) (State, error) {
	ctx, span := startSpan(ctx, "StateController.Refresh", attribute.String("reason", reason))
	defer span.End()

	c.refreshMu.Lock()
	st, err := c.load(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = nil
		c.mu.Unlock()
	}
	c.refreshMu.Unlock()
	if err != nil {
		c.logger.ErrorContext(ctx, "refresh tournament state failed", "reason", reason, "error", err)
		return State{}, err
	}

	c.publish(ctx, reason, st)
	return st, nil
}

// load reads storage and stores the derived state; callers hold refreshMu.
func (c *StateController) load(ctx context.Context) (State, error) {
	ctx, span := startSpan(ctx, "StateController.load")
	defer span.End()

	teams, err := c.teamRepo.ListWithPlayers(ctx)
	if err != nil {
		return State{}, fmt.Errorf("load teams: %w", err)
	}
	matches, err := c.matchRepo.ListWithEvents(ctx)
	if err != nil {
		return State{}, fmt.Errorf("load matches: %w", err)
	}

	snapshot := tournament.Snapshot{
		Teams:    teams,
		Matches:  matches,
		LoadedAt: c.clock.Now().UTC(),
	}
	views := tournament.Derive(snapshot, c.rule)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	st := State{Version: c.version, Snapshot: snapshot, Views: views}
	c.state = &st
	return st, nil
}

func (c *StateController) publish(ctx context.Context, reason string, st State) {
	if c.publisher == nil {
		return
	}

	eventID, err := c.ids.NewID()
	if err != nil {
		c.logger.WarnContext(ctx, "generate change event id failed", "error", err)
	}

	completed := 0
	for _, m := range st.Snapshot.Matches {
		if m.Status == match.StatusCompleted {
			completed++
		}
	}

	event := tournament.ChangeEvent{
		ID:         eventID,
		Reason:     reason,
		Version:    st.Version,
		OccurredAt: st.Snapshot.LoadedAt,
		Teams:      len(st.Snapshot.Teams),
		Matches:    len(st.Snapshot.Matches),
		Completed:  completed,
	}
	if err := c.publisher.PublishChange(ctx, event); err != nil {
		c.logger.WarnContext(ctx, "publish change event failed", "reason", reason, "version", st.Version, "error", err)
	}
}

// refreshAfterWrite is used by the mutation services; the write already
// succeeded, so a failed recompute is logged and left for the next read.
func (c *StateController) refreshAfterWrite(ctx context.Context, reason string) {
	if c == nil {
		return
	}
	_, _ = c.Refresh(ctx, reason)
}
