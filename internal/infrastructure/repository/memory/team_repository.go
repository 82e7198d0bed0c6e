package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) ListWithPlayers(_ context.Context) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rosters := r.store.rostersLocked()
	teams := r.store.teams.list()
	for i := range teams {
		teams[i].Players = rosters[teams[i].ID]
	}
	return teams, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams.get(teamID)
	if !ok {
		return team.Team{}, false, nil
	}
	item.Players = r.store.rosterLocked(teamID)
	return item, true, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.teams.has(item.ID) {
		return fmt.Errorf("team %s already exists", item.ID)
	}
	r.store.putTeamLocked(item)
	return nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.teams.has(item.ID) {
		return fmt.Errorf("update team %s: %w", item.ID, ErrRecordNotFound)
	}
	item.Players = nil
	r.store.teams.put(item.ID, item)
	return nil
}

func (r *TeamRepository) DeleteWithPlayers(_ context.Context, teamID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.teams.deleteWhere(func(t team.Team) bool { return t.ID == teamID }) == 0 {
		return 0, fmt.Errorf("delete team %s: %w", teamID, ErrRecordNotFound)
	}
	removed := r.store.players.deleteWhere(func(p player.Player) bool { return p.TeamID == teamID })
	return removed, nil
}

// putTeamLocked stores the team row and any roster it carries.
func (s *Store) putTeamLocked(item team.Team) {
	for _, p := range item.Players {
		p.TeamID = item.ID
		s.players.put(p.ID, p)
	}
	item.Players = nil
	s.teams.put(item.ID, item)
}

func (s *Store) rosterLocked(teamID string) []player.Player {
	out := s.players.filter(func(p player.Player) bool { return p.TeamID == teamID })
	player.SortBySquadNumber(out)
	return out
}

func (s *Store) rostersLocked() map[string][]player.Player {
	out := make(map[string][]player.Player)
	for _, p := range s.players.list() {
		out[p.TeamID] = append(out[p.TeamID], p)
	}
	for teamID := range out {
		player.SortBySquadNumber(out[teamID])
	}
	return out
}
