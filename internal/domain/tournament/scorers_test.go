package tournament

import (
	"testing"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
)

func TestTopScorers_ExcludesOwnGoals(t *testing.T) {
	t.Parallel()

	m1 := completed("m1", "T1", "T2", 3, 1)
	m1.Goals = []match.Goal{
		{ID: "g1", MatchID: "m1", PlayerID: "striker", TeamID: "T1", Minute: 5},
		{ID: "g2", MatchID: "m1", PlayerID: "defender", TeamID: "T1", Minute: 20, IsOwnGoal: true},
		{ID: "g3", MatchID: "m1", PlayerID: "striker", TeamID: "T1", Minute: 70},
		{ID: "g4", MatchID: "m1", PlayerID: "winger", TeamID: "T2", Minute: 88},
	}

	got := TopScorers([]match.Match{m1})
	if len(got) != 2 {
		t.Fatalf("expected 2 scorers, got %+v", got)
	}
	if got[0].PlayerID != "striker" || got[0].Goals != 2 || got[0].TeamID != "T1" {
		t.Fatalf("unexpected leader: %+v", got[0])
	}
	for _, entry := range got {
		if entry.PlayerID == "defender" {
			t.Fatalf("own goal scorer must not be listed: %+v", entry)
		}
	}

	home, away := m1.ScoreFromGoals()
	if home != 3 || away != 1 {
		t.Fatalf("own goal must still count for the credited team, got %d-%d", home, away)
	}
}

func TestTopScorers_TieBrokenByPlayerID(t *testing.T) {
	t.Parallel()

	m1 := completed("m1", "T1", "T2", 1, 1)
	m1.Goals = []match.Goal{
		{ID: "g1", PlayerID: "p9", TeamID: "T1"},
		{ID: "g2", PlayerID: "p1", TeamID: "T2"},
	}
	m2 := completed("m2", "T3", "T4", 1, 0)
	m2.Goals = []match.Goal{{ID: "g3", PlayerID: "p5", TeamID: "T3"}}

	got := TopScorers([]match.Match{m1, m2})
	want := []string{"p1", "p5", "p9"}
	for i, id := range want {
		if got[i].PlayerID != id || got[i].Goals != 1 {
			t.Fatalf("unexpected order: want=%v got=%+v", want, got)
		}
	}
}

func TestTopScorers_Empty(t *testing.T) {
	t.Parallel()

	if got := TopScorers(nil); len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}
