package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tournament-admin/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.rosterLocked(teamID), nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.players.get(playerID)
	return item, ok, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.teams.has(item.TeamID) {
		return fmt.Errorf("create player for team %s: %w", item.TeamID, ErrRecordNotFound)
	}
	if r.store.players.has(item.ID) {
		return fmt.Errorf("player %s already exists", item.ID)
	}
	r.store.players.put(item.ID, item)
	return nil
}

func (r *PlayerRepository) Update(_ context.Context, item player.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.players.has(item.ID) {
		return fmt.Errorf("update player %s: %w", item.ID, ErrRecordNotFound)
	}
	if !r.store.teams.has(item.TeamID) {
		return fmt.Errorf("move player to team %s: %w", item.TeamID, ErrRecordNotFound)
	}
	r.store.players.put(item.ID, item)
	return nil
}

func (r *PlayerRepository) Delete(_ context.Context, playerID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.players.deleteWhere(func(p player.Player) bool { return p.ID == playerID }) == 0 {
		return fmt.Errorf("delete player %s: %w", playerID, ErrRecordNotFound)
	}
	return nil
}
