package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
)

func rosterEnv(t *testing.T) (*testEnv, match.Match) {
	t.Helper()

	seed := []team.Team{
		{ID: "T1", Name: "One", Group: "A", Players: []player.Player{{ID: "p1", Name: "Ace", Number: 9, Position: player.PositionForward}}},
		{ID: "T2", Name: "Two", Group: "A", Players: []player.Player{{ID: "p2", Name: "Back", Number: 4, Position: player.PositionDefender}}},
	}
	env := newTestEnv(t, TeamDeleteKeep, seed...)
	result, err := env.schedule.Generate(context.Background(), GenerateScheduleInput{StartDate: "2026-07-01"})
	if err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	return env, result.Matches[0]
}

func TestMatchService_RecordResult(t *testing.T) {
	t.Parallel()

	env, fixture := rosterEnv(t)
	ctx := context.Background()

	done, err := env.matches.RecordResult(ctx, fixture.ID, RecordResultInput{HomeScore: match.IntPtr(2), AwayScore: match.IntPtr(1)})
	if err != nil {
		t.Fatalf("record result: %v", err)
	}
	if done.Status != match.StatusCompleted || done.CompletedAt == nil || !done.CompletedAt.Equal(testNow) {
		t.Fatalf("unexpected completed match: %+v", done)
	}

	if _, err := env.matches.RecordResult(ctx, fixture.ID, RecordResultInput{HomeScore: match.IntPtr(1)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a single score, got %v", err)
	}
	if _, err := env.matches.RecordResult(ctx, fixture.ID, RecordResultInput{HomeScore: match.IntPtr(-1), AwayScore: match.IntPtr(0)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a negative score, got %v", err)
	}
	if _, err := env.matches.RecordResult(ctx, "missing", RecordResultInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_ResultFromGoals(t *testing.T) {
	t.Parallel()

	env, fixture := rosterEnv(t)
	ctx := context.Background()

	if _, err := env.matches.AddGoal(ctx, fixture.ID, AddGoalInput{PlayerID: "p1", Minute: 12}); err != nil {
		t.Fatalf("add goal: %v", err)
	}
	own, err := env.matches.AddGoal(ctx, fixture.ID, AddGoalInput{PlayerID: "p2", Minute: 50, IsOwnGoal: true})
	if err != nil {
		t.Fatalf("add own goal: %v", err)
	}
	if own.TeamID != "T1" {
		t.Fatalf("own goal must be credited to the opponent, got %s", own.TeamID)
	}

	done, err := env.matches.RecordResult(ctx, fixture.ID, RecordResultInput{})
	if err != nil {
		t.Fatalf("record result: %v", err)
	}
	home, away, _ := done.Result()
	wantHome, wantAway := 2, 0
	if done.HomeTeamID == "T2" {
		wantHome, wantAway = 0, 2
	}
	if home != wantHome || away != wantAway {
		t.Fatalf("unexpected derived score %d-%d", home, away)
	}

	scorers, err := env.stats.TopScorers(ctx, 0)
	if err != nil {
		t.Fatalf("top scorers: %v", err)
	}
	if len(scorers) != 1 || scorers[0].PlayerID != "p1" {
		t.Fatalf("own goal must not count for the scorer, got %+v", scorers)
	}
}

func TestMatchService_AddGoalValidation(t *testing.T) {
	t.Parallel()

	env, fixture := rosterEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input AddGoalInput
	}{
		{name: "empty scorer", input: AddGoalInput{TeamID: "T1"}},
		{name: "team not in match", input: AddGoalInput{PlayerID: "p1", TeamID: "T9"}},
		{name: "unknown player without team", input: AddGoalInput{PlayerID: "ghost"}},
		{name: "minute out of range", input: AddGoalInput{PlayerID: "p1", TeamID: "T1", Minute: 200}},
	}
	for _, tc := range tests {
		if _, err := env.matches.AddGoal(ctx, fixture.ID, tc.input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}

	got, err := env.matches.Get(ctx, fixture.ID)
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if len(got.Goals) != 0 {
		t.Fatalf("rejected goals must not be stored, got %+v", got.Goals)
	}
}

func TestMatchService_AddCardAndSuspensions(t *testing.T) {
	t.Parallel()

	env, fixture := rosterEnv(t)
	ctx := context.Background()

	for _, minute := range []int{10, 70} {
		if _, err := env.matches.AddCard(ctx, fixture.ID, AddCardInput{PlayerID: "p2", Minute: minute, Type: "yellow"}); err != nil {
			t.Fatalf("add card: %v", err)
		}
	}
	if _, err := env.matches.AddCard(ctx, fixture.ID, AddCardInput{PlayerID: "p2", Type: "blue"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for card type, got %v", err)
	}
	if _, err := env.matches.AddCard(ctx, fixture.ID, AddCardInput{Type: "red"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing player, got %v", err)
	}

	suspensions, err := env.stats.Suspensions(ctx)
	if err != nil {
		t.Fatalf("suspensions: %v", err)
	}
	if len(suspensions) != 1 || suspensions[0].PlayerID != "p2" || suspensions[0].BanMatches != 1 || suspensions[0].Team.Name != "Two" {
		t.Fatalf("unexpected suspensions: %+v", suspensions)
	}
}

func TestMatchService_CancelAndReopen(t *testing.T) {
	t.Parallel()

	env, fixture := rosterEnv(t)
	ctx := context.Background()

	if _, err := env.matches.RecordResult(ctx, fixture.ID, RecordResultInput{HomeScore: match.IntPtr(1), AwayScore: match.IntPtr(1)}); err != nil {
		t.Fatalf("record result: %v", err)
	}
	cancelled, err := env.matches.Cancel(ctx, fixture.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != match.StatusCancelled || cancelled.HomeScore != nil {
		t.Fatalf("unexpected cancelled match: %+v", cancelled)
	}
	if _, err := env.matches.RecordResult(ctx, fixture.ID, RecordResultInput{}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on cancelled match, got %v", err)
	}

	standings, err := env.stats.Standings(ctx, "A")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	for _, row := range standings[0].Rows {
		if row.Played != 0 {
			t.Fatalf("cancelled match must not count, got %+v", row)
		}
	}

	reopened, err := env.matches.Reopen(ctx, fixture.ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != match.StatusScheduled {
		t.Fatalf("expected scheduled, got %s", reopened.Status)
	}
}

func TestMatchService_UpdateDetails(t *testing.T) {
	t.Parallel()

	env, fixture := rosterEnv(t)
	ctx := context.Background()

	date, clock, venue := "2026-07-10", "20:30", "Stadion Utama"
	updated, err := env.matches.UpdateDetails(ctx, fixture.ID, UpdateMatchInput{Date: &date, Time: &clock, Venue: &venue})
	if err != nil {
		t.Fatalf("update details: %v", err)
	}
	if want := time.Date(2026, 7, 10, 20, 30, 0, 0, time.UTC); !updated.KickoffAt.Equal(want) {
		t.Fatalf("want kickoff %s got %s", want, updated.KickoffAt)
	}
	if updated.Venue != venue {
		t.Fatalf("unexpected venue %q", updated.Venue)
	}

	bad := "7pm"
	if _, err := env.matches.UpdateDetails(ctx, fixture.ID, UpdateMatchInput{Time: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
