package postgres

import (
	"testing"
	"time"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
)

func TestMatchEventsAttach(t *testing.T) {
	t.Parallel()

	events := newMatchEvents(
		[]goalTableModel{
			{PublicID: "g-2", MatchID: "m-1", PlayerID: "p-1", TeamID: "t-1", Minute: 80},
			{PublicID: "g-1", MatchID: "m-1", PlayerID: "p-2", TeamID: "t-2", Minute: 10, IsOwnGoal: true},
			{PublicID: "g-3", MatchID: "m-2", PlayerID: "p-1", TeamID: "t-1", Minute: 5},
		},
		[]cardTableModel{{PublicID: "y-1", MatchID: "m-1", PlayerID: "p-2", TeamID: "t-2", Minute: 30}},
		[]cardTableModel{{PublicID: "r-1", MatchID: "m-1", PlayerID: "p-2", TeamID: "t-2", Minute: 20}},
	)

	got := events.attach(match.Match{ID: "m-1"})
	if len(got.Goals) != 2 || got.Goals[0].ID != "g-1" || !got.Goals[0].IsOwnGoal {
		t.Fatalf("unexpected goals: %+v", got.Goals)
	}
	if len(got.Cards) != 2 || got.Cards[0].Type != match.CardRed || got.Cards[1].Type != match.CardYellow {
		t.Fatalf("unexpected cards: %+v", got.Cards)
	}

	empty := events.attach(match.Match{ID: "m-9"})
	if empty.Goals == nil || empty.Cards == nil || len(empty.Goals) != 0 {
		t.Fatalf("expected empty non-nil event lists, got %+v", empty)
	}
}

func TestMatchFromRow(t *testing.T) {
	t.Parallel()

	completed := time.Date(2026, 7, 1, 21, 0, 0, 0, time.UTC)
	row := matchTableModel{
		PublicID:    "m-1",
		HomeTeamID:  "t-1",
		AwayTeamID:  "t-2",
		Group:       "A",
		Round:       2,
		Status:      "completed",
		CompletedAt: &completed,
	}
	row.HomeScore = nullableInt(match.IntPtr(2))

	got := matchFromRow(row)
	if got.Status != match.StatusCompleted || got.HomeScore == nil || *got.HomeScore != 2 {
		t.Fatalf("unexpected match: %+v", got)
	}
	if got.AwayScore != nil {
		t.Fatalf("expected nil away score, got %d", *got.AwayScore)
	}
}
