package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
)

type GroupLeader struct {
	Group  string
	TeamID string
	Points int
}

// Dashboard is the one-screen overview of the tournament.
type Dashboard struct {
	Version         int64
	Teams           int
	Players         int
	Matches         int
	MatchesByStatus map[match.Status]int
	Goals           int
	OwnGoals        int
	YellowCards     int
	RedCards        int
	Suspended       int
	Leaders         []GroupLeader
	TopScorer       *tournament.ScorerEntry
	NextMatch       *match.Match
	RefreshedAt     time.Time
	CompletionPct   int
}

// StatisticsService reads derived figures from the state controller.
type StatisticsService struct {
	state *StateController
	clock clockwork.Clock
}

func NewStatisticsService(state *StateController, clock clockwork.Clock) *StatisticsService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &StatisticsService{state: state, clock: clock}
}

// Standings returns every group table, or only the requested one.
func (s *StatisticsService) Standings(ctx context.Context, group string) ([]tournament.GroupStandings, error) {
	ctx, span := startSpan(ctx, "StatisticsService.Standings")
	defer span.End()

	st, err := s.state.Current(ctx)
	if err != nil {
		return nil, err
	}
	if group == "" {
		return cloneStandings(st.Views.Standings), nil
	}

	table, ok := st.Views.Group(group)
	if !ok {
		return nil, fmt.Errorf("%w: group=%s", ErrNotFound, group)
	}
	return cloneStandings([]tournament.GroupStandings{table}), nil
}

// cloneStandings detaches tables from the cached views, rows included.
func cloneStandings(tables []tournament.GroupStandings) []tournament.GroupStandings {
	out := make([]tournament.GroupStandings, len(tables))
	for i, t := range tables {
		t.Rows = slices.Clone(t.Rows)
		out[i] = t
	}
	return out
}

// TopScorers returns the ranked scorer list; limit <= 0 returns all of it.
func (s *StatisticsService) TopScorers(ctx context.Context, limit int) ([]tournament.ScorerEntry, error) {
	ctx, span := startSpan(ctx, "StatisticsService.TopScorers")
	defer span.End()

	st, err := s.state.Current(ctx)
	if err != nil {
		return nil, err
	}

	items := st.Views.TopScorers
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return slices.Clone(items), nil
}

func (s *StatisticsService) Suspensions(ctx context.Context) ([]tournament.Suspension, error) {
	ctx, span := startSpan(ctx, "StatisticsService.Suspensions")
	defer span.End()

	st, err := s.state.Current(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(st.Views.Suspensions), nil
}

// Directory resolves team and player names for presentation.
func (s *StatisticsService) Directory(ctx context.Context) (tournament.Directory, error) {
	st, err := s.state.Current(ctx)
	if err != nil {
		return tournament.Directory{}, err
	}
	return st.Directory(), nil
}

func (s *StatisticsService) Dashboard(ctx context.Context) (Dashboard, error) {
	ctx, span := startSpan(ctx, "StatisticsService.Dashboard")
	defer span.End()

	st, err := s.state.Current(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	out := Dashboard{
		Version:         st.Version,
		Teams:           len(st.Snapshot.Teams),
		Matches:         len(st.Snapshot.Matches),
		MatchesByStatus: map[match.Status]int{match.StatusScheduled: 0, match.StatusCompleted: 0, match.StatusCancelled: 0},
		Suspended:       len(st.Views.Suspensions),
		Leaders:         make([]GroupLeader, 0, len(st.Views.Standings)),
		RefreshedAt:     st.Snapshot.LoadedAt,
	}
	for _, t := range st.Snapshot.Teams {
		out.Players += len(t.Players)
	}

	now := s.clock.Now()
	for i := range st.Snapshot.Matches {
		m := st.Snapshot.Matches[i]
		out.MatchesByStatus[m.Status]++
		for _, g := range m.Goals {
			out.Goals++
			if g.IsOwnGoal {
				out.OwnGoals++
			}
		}
		for _, c := range m.Cards {
			switch c.Type {
			case match.CardYellow:
				out.YellowCards++
			case match.CardRed:
				out.RedCards++
			}
		}
		if m.Status == match.StatusScheduled && !m.KickoffAt.Before(now) {
			if out.NextMatch == nil || m.KickoffAt.Before(out.NextMatch.KickoffAt) {
				next := m
				out.NextMatch = &next
			}
		}
	}

	played := out.MatchesByStatus[match.StatusCompleted]
	if live := out.Matches - out.MatchesByStatus[match.StatusCancelled]; live > 0 {
		out.CompletionPct = played * 100 / live
	}

	for _, table := range st.Views.Standings {
		if len(table.Rows) == 0 {
			continue
		}
		top := table.Rows[0]
		out.Leaders = append(out.Leaders, GroupLeader{Group: table.Group, TeamID: top.TeamID, Points: top.Points})
	}
	if len(st.Views.TopScorers) > 0 {
		top := st.Views.TopScorers[0]
		out.TopScorer = &top
	}

	return out, nil
}
