package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
)

func TestStatisticsService_EndToEnd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, TeamDeleteKeep, groupA()...)
	ctx := context.Background()

	result, err := env.schedule.Generate(ctx, GenerateScheduleInput{StartDate: "2026-07-01"})
	if err != nil {
		t.Fatalf("generate schedule: %v", err)
	}

	var target match.Match
	for _, m := range result.Matches {
		if m.Involves("T1") && m.Involves("T2") {
			target = m
		}
	}
	home, away := 2, 1
	if target.HomeTeamID == "T2" {
		home, away = 1, 2
	}
	if _, err := env.matches.RecordResult(ctx, target.ID, RecordResultInput{HomeScore: &home, AwayScore: &away}); err != nil {
		t.Fatalf("record result: %v", err)
	}

	tables, err := env.stats.Standings(ctx, "a")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	rows := tables[0].Rows
	var t1, t2 = rows[0], rows[len(rows)-1]
	if t1.TeamID != "T1" || t1.Played != 1 || t1.Won != 1 || t1.Points != 3 || t1.GoalsFor != 2 || t1.GoalsAgainst != 1 {
		t.Fatalf("unexpected T1 row: %+v", t1)
	}
	if t2.TeamID != "T2" || t2.Played != 1 || t2.Lost != 1 || t2.Points != 0 || t2.GoalsFor != 1 || t2.GoalsAgainst != 2 {
		t.Fatalf("unexpected T2 row: %+v", t2)
	}

	if _, err := env.stats.Standings(ctx, "Z"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown group, got %v", err)
	}

	dash, err := env.stats.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Teams != 4 || dash.Matches != 6 || dash.MatchesByStatus[match.StatusCompleted] != 1 {
		t.Fatalf("unexpected dashboard counts: %+v", dash)
	}
	if len(dash.Leaders) != 1 || dash.Leaders[0].TeamID != "T1" || dash.Leaders[0].Points != 3 {
		t.Fatalf("unexpected leaders: %+v", dash.Leaders)
	}
	if dash.NextMatch == nil || dash.NextMatch.Status != match.StatusScheduled {
		t.Fatalf("expected an upcoming match, got %+v", dash.NextMatch)
	}
	if dash.CompletionPct != 16 {
		t.Fatalf("expected 16%% completion, got %d", dash.CompletionPct)
	}
}

func TestStatisticsService_TopScorersLimit(t *testing.T) {
	t.Parallel()

	env, fixture := rosterEnv(t)
	ctx := context.Background()
	for _, p := range []string{"p1", "p1", "p2"} {
		if _, err := env.matches.AddGoal(ctx, fixture.ID, AddGoalInput{PlayerID: p, Minute: 1}); err != nil {
			t.Fatalf("add goal: %v", err)
		}
	}

	top, err := env.stats.TopScorers(ctx, 1)
	if err != nil {
		t.Fatalf("top scorers: %v", err)
	}
	if len(top) != 1 || top[0].PlayerID != "p1" || top[0].Goals != 2 {
		t.Fatalf("unexpected top scorers: %+v", top)
	}
}

func TestStatisticsService_ResultsAreDetachedFromState(t *testing.T) {
	t.Parallel()

	env, fixture := rosterEnv(t)
	ctx := context.Background()
	for _, p := range []string{"p1", "p1", "p2"} {
		if _, err := env.matches.AddGoal(ctx, fixture.ID, AddGoalInput{PlayerID: p, Minute: 1}); err != nil {
			t.Fatalf("add goal: %v", err)
		}
	}
	if _, err := env.matches.RecordResult(ctx, fixture.ID, RecordResultInput{}); err != nil {
		t.Fatalf("record result: %v", err)
	}

	tables, err := env.stats.Standings(ctx, "")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	leader := tables[0].Rows[0]
	tables[0].Rows[0].Points = 99
	tables[0].Rows[0], tables[0].Rows[1] = tables[0].Rows[1], tables[0].Rows[0]

	top, err := env.stats.TopScorers(ctx, 1)
	if err != nil {
		t.Fatalf("top scorers: %v", err)
	}
	top = append(top, tournament.ScorerEntry{PlayerID: "intruder", Goals: 50})
	top[0].Goals = 0

	again, err := env.stats.Standings(ctx, "A")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if again[0].Rows[0] != leader {
		t.Fatalf("cached standings changed through a returned slice: %+v", again[0].Rows[0])
	}

	all, err := env.stats.TopScorers(ctx, 0)
	if err != nil {
		t.Fatalf("top scorers: %v", err)
	}
	if len(all) != 2 || all[0].PlayerID != "p1" || all[0].Goals != 2 || all[1].PlayerID != "p2" {
		t.Fatalf("cached scorers changed through a returned slice: %+v", all)
	}
}
