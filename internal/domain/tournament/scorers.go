package tournament

import (
	"sort"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
)

type ScorerEntry struct {
	PlayerID string
	TeamID   string
	Goals    int
}

// TopScorers counts goals per player, leaving own goals out entirely.
// Ties on goals are broken by player id.
func TopScorers(matches []match.Match) []ScorerEntry {
	index := make(map[string]int)
	out := make([]ScorerEntry, 0)
	for _, m := range matches {
		for _, g := range m.Goals {
			if g.IsOwnGoal || g.PlayerID == "" {
				continue
			}
			i, ok := index[g.PlayerID]
			if !ok {
				i = len(out)
				index[g.PlayerID] = i
				out = append(out, ScorerEntry{PlayerID: g.PlayerID, TeamID: g.TeamID})
			}
			out[i].Goals++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
