package match

import (
	"strings"
	"testing"
	"time"
)

func fixture() Match {
	return Match{
		ID:         "m1",
		HomeTeamID: "t1",
		AwayTeamID: "t2",
		Round:      1,
		Status:     StatusScheduled,
	}
}

func TestMatchValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Match)
		wantErr string
	}{
		{name: "valid", mutate: func(*Match) {}},
		{name: "self match", mutate: func(m *Match) { m.AwayTeamID = "t1" }, wantErr: "itself"},
		{name: "round zero", mutate: func(m *Match) { m.Round = 0 }, wantErr: "round"},
		{name: "bad status", mutate: func(m *Match) { m.Status = "postponed" }, wantErr: "status"},
		{name: "one score", mutate: func(m *Match) { m.HomeScore = IntPtr(1) }, wantErr: "together"},
		{name: "negative score", mutate: func(m *Match) { m.HomeScore, m.AwayScore = IntPtr(-1), IntPtr(0) }, wantErr: ">= 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := fixture()
			tc.mutate(&m)
			err := m.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestMatchResult(t *testing.T) {
	t.Parallel()

	m := fixture()
	m.HomeScore, m.AwayScore = IntPtr(2), IntPtr(1)
	if _, _, ok := m.Result(); ok {
		t.Fatalf("scheduled match must not expose a result")
	}

	m.Status = StatusCompleted
	home, away, ok := m.Result()
	if !ok || home != 2 || away != 1 {
		t.Fatalf("unexpected result: %d-%d ok=%v", home, away, ok)
	}
}

func TestScoreFromGoals_OwnGoalCountsForCreditedTeam(t *testing.T) {
	t.Parallel()

	m := fixture()
	m.Goals = []Goal{
		{ID: "g1", MatchID: "m1", PlayerID: "p1", TeamID: "t1", Minute: 10},
		{ID: "g2", MatchID: "m1", PlayerID: "p1", TeamID: "t2", Minute: 30, IsOwnGoal: true},
		{ID: "g3", MatchID: "m1", PlayerID: "p9", TeamID: "t1", Minute: 80},
	}

	home, away := m.ScoreFromGoals()
	if home != 2 || away != 1 {
		t.Fatalf("unexpected score from goals: %d-%d", home, away)
	}
}

func TestGoalValidateFor(t *testing.T) {
	t.Parallel()

	m := fixture()
	valid := Goal{ID: "g1", MatchID: "m1", PlayerID: "p1", TeamID: "t2", Minute: 90}
	if err := valid.ValidateFor(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outsider := valid
	outsider.TeamID = "t3"
	if err := outsider.ValidateFor(m); err == nil {
		t.Fatalf("expected error for team outside the match")
	}

	noScorer := valid
	noScorer.PlayerID = "  "
	if err := noScorer.ValidateFor(m); err == nil {
		t.Fatalf("expected error for empty scorer")
	}

	late := valid
	late.Minute = MaxMinute + 1
	if err := late.ValidateFor(m); err == nil {
		t.Fatalf("expected error for minute out of range")
	}
}

func TestCardValidateFor(t *testing.T) {
	t.Parallel()

	m := fixture()
	card := Card{ID: "c1", MatchID: "m1", PlayerID: "p1", TeamID: "t1", Minute: 44, Type: NormalizeCardType(" Yellow ")}
	if err := card.ValidateFor(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	card.Type = "green"
	if err := card.ValidateFor(m); err == nil {
		t.Fatalf("expected error for unknown card type")
	}
}

func TestSortFixtures(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	items := []Match{
		{ID: "c", Round: 2, KickoffAt: day.AddDate(0, 0, 1), Group: "A"},
		{ID: "b", Round: 1, KickoffAt: day, Group: "B"},
		{ID: "a", Round: 1, KickoffAt: day, Group: "A"},
	}
	SortFixtures(items)

	got := []string{items[0].ID, items[1].ID, items[2].ID}
	if strings.Join(got, ",") != "a,b,c" {
		t.Fatalf("unexpected order: %v", got)
	}
}
