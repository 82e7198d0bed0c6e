package tournament

import (
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
)

// Ref is a resolved reference to a team or player. Found is false when the id
// no longer points at anything.
type Ref struct {
	ID    string
	Name  string
	Found bool
}

// Directory indexes teams and rosters for id lookups.
type Directory struct {
	teams   map[string]team.Team
	players map[string]player.Player
}

func NewDirectory(teams []team.Team) Directory {
	d := Directory{
		teams:   make(map[string]team.Team, len(teams)),
		players: make(map[string]player.Player),
	}
	for _, t := range teams {
		d.teams[t.ID] = t
		for _, p := range t.Players {
			d.players[p.ID] = p
		}
	}
	return d
}

func (d Directory) Team(teamID string) (Ref, bool) {
	t, ok := d.teams[teamID]
	if !ok {
		return Ref{ID: teamID}, false
	}
	return Ref{ID: t.ID, Name: t.Name, Found: true}, true
}

func (d Directory) Player(playerID string) (Ref, bool) {
	p, ok := d.players[playerID]
	if !ok {
		return Ref{ID: playerID}, false
	}
	return Ref{ID: p.ID, Name: p.Name, Found: true}, true
}

// PlayerTeam returns the id of the team the player currently belongs to.
func (d Directory) PlayerTeam(playerID string) (string, bool) {
	p, ok := d.players[playerID]
	if !ok {
		return "", false
	}
	return p.TeamID, true
}

// GroupOf returns the group label of a team.
func (d Directory) GroupOf(teamID string) (string, bool) {
	t, ok := d.teams[teamID]
	if !ok {
		return "", false
	}
	return team.NormalizeGroup(t.Group), true
}
