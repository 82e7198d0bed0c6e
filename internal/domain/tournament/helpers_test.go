package tournament

import (
	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
)

func groupOf(label string, ids ...string) []team.Team {
	out := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, team.Team{ID: id, Name: "Team " + id, Group: label})
	}
	return out
}

func completed(id, home, away string, homeScore, awayScore int) match.Match {
	return match.Match{
		ID:         id,
		HomeTeamID: home,
		AwayTeamID: away,
		Group:      "A",
		Round:      1,
		Status:     match.StatusCompleted,
		HomeScore:  match.IntPtr(homeScore),
		AwayScore:  match.IntPtr(awayScore),
	}
}

func withPlayers(t team.Team, players ...player.Player) team.Team {
	t.Players = players
	return t
}
