package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
	"github.com/riskibarqy/tournament-admin/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-admin/internal/platform/id"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
)

var testNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []tournament.ChangeEvent
	err    error
}

func (p *recordingPublisher) PublishChange(_ context.Context, event tournament.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) reasons() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Reason)
	}
	return out
}

type testEnv struct {
	store     *memory.Store
	clock     *clockwork.FakeClock
	publisher *recordingPublisher
	state     *StateController
	teams     *TeamService
	schedule  *ScheduleService
	matches   *MatchService
	stats     *StatisticsService
}

func newTestEnv(t *testing.T, policy TeamDeletePolicy, seed ...team.Team) *testEnv {
	t.Helper()

	store := memory.NewStore()
	store.Seed(seed)
	teamRepo := memory.NewTeamRepository(store)
	playerRepo := memory.NewPlayerRepository(store)
	matchRepo := memory.NewMatchRepository(store)

	clock := clockwork.NewFakeClockAt(testNow)
	publisher := &recordingPublisher{}
	logger := logging.NewNop()
	ids := id.NewSequenceGenerator("id")

	state := NewStateController(teamRepo, matchRepo, logger,
		WithChangePublisher(publisher),
		WithClock(clock),
		WithEventIDs(id.NewSequenceGenerator("evt")),
	)

	return &testEnv{
		store:     store,
		clock:     clock,
		publisher: publisher,
		state:     state,
		teams:     NewTeamService(teamRepo, playerRepo, matchRepo, ids, state, policy, logger),
		schedule: NewScheduleService(teamRepo, matchRepo, ids, state, ScheduleSettings{
			Venue:       "Gelora",
			KickoffTime: 19 * time.Hour,
			Workers:     2,
		}, logger),
		matches: NewMatchService(matchRepo, playerRepo, ids, state, clock, time.UTC, logger),
		stats:   NewStatisticsService(state, clock),
	}
}

func groupA() []team.Team {
	return []team.Team{
		{ID: "T1", Name: "One", Group: "A"},
		{ID: "T2", Name: "Two", Group: "A"},
		{ID: "T3", Name: "Three", Group: "A"},
		{ID: "T4", Name: "Four", Group: "A"},
	}
}
