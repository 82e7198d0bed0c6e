package tournament

import (
	"time"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
)

// Snapshot is the full entity set at one point in time. Treat it as read-only.
type Snapshot struct {
	Teams    []team.Team
	Matches  []match.Match
	LoadedAt time.Time
}

func (s Snapshot) Directory() Directory {
	return NewDirectory(s.Teams)
}

// Views are the figures derived from a snapshot.
type Views struct {
	Standings   []GroupStandings
	TopScorers  []ScorerEntry
	Suspensions []Suspension
}

// Derive recomputes every view from scratch.
func Derive(s Snapshot, rule SuspensionRule) Views {
	return Views{
		Standings:   CalculateStandings(s.Teams, s.Matches),
		TopScorers:  TopScorers(s.Matches),
		Suspensions: EvaluateSuspensions(s.Matches, s.Directory(), rule),
	}
}

// Group returns the table of one group.
func (v Views) Group(label string) (GroupStandings, bool) {
	label = team.NormalizeGroup(label)
	for _, g := range v.Standings {
		if g.Group == label {
			return g, true
		}
	}
	return GroupStandings{}, false
}
