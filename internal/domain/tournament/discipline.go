package tournament

import (
	"sort"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
)

// SuspensionRule turns accumulated cards into banned matches.
// Counts are cumulative over the whole tournament and never reset.
type SuspensionRule struct {
	YellowsPerBan int
	BansPerRed    int
}

func DefaultSuspensionRule() SuspensionRule {
	return SuspensionRule{YellowsPerBan: 2, BansPerRed: 1}
}

// BanMatches applies the rule; a partial yellow streak carries no ban.
func (r SuspensionRule) BanMatches(yellow, red int) int {
	bans := red * r.BansPerRed
	if r.YellowsPerBan > 0 {
		bans += yellow / r.YellowsPerBan
	}
	return bans
}

type Suspension struct {
	PlayerID   string
	TeamID     string
	Player     Ref
	Team       Ref
	Yellow     int
	Red        int
	BanMatches int
}

// EvaluateSuspensions tallies every card of every match and reports the players
// with at least one banned match, heaviest ban first, then by player id.
// The team shown is the player's current team, falling back to the team on the card.
func EvaluateSuspensions(matches []match.Match, dir Directory, rule SuspensionRule) []Suspension {
	index := make(map[string]int)
	tallies := make([]Suspension, 0)
	for _, m := range matches {
		for _, c := range m.Cards {
			if c.PlayerID == "" {
				continue
			}
			i, ok := index[c.PlayerID]
			if !ok {
				i = len(tallies)
				index[c.PlayerID] = i
				tallies = append(tallies, Suspension{PlayerID: c.PlayerID, TeamID: c.TeamID})
			}
			switch c.Type {
			case match.CardYellow:
				tallies[i].Yellow++
			case match.CardRed:
				tallies[i].Red++
			}
		}
	}

	out := make([]Suspension, 0, len(tallies))
	for _, s := range tallies {
		s.BanMatches = rule.BanMatches(s.Yellow, s.Red)
		if s.BanMatches <= 0 {
			continue
		}
		if teamID, ok := dir.PlayerTeam(s.PlayerID); ok {
			s.TeamID = teamID
		}
		s.Player, _ = dir.Player(s.PlayerID)
		s.Team, _ = dir.Team(s.TeamID)
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BanMatches != out[j].BanMatches {
			return out[i].BanMatches > out[j].BanMatches
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
