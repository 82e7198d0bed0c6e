package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) ListWithEvents(_ context.Context) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	items := r.store.matches.list()
	goals := make(map[string][]match.Goal)
	for _, g := range r.store.goals.list() {
		goals[g.MatchID] = append(goals[g.MatchID], g)
	}
	cards := make(map[string][]match.Card)
	for _, c := range r.store.yellowCards.list() {
		cards[c.MatchID] = append(cards[c.MatchID], c)
	}
	for _, c := range r.store.redCards.list() {
		cards[c.MatchID] = append(cards[c.MatchID], c)
	}

	for i := range items {
		items[i].Goals = append([]match.Goal{}, goals[items[i].ID]...)
		items[i].Cards = append([]match.Card{}, cards[items[i].ID]...)
		match.SortEvents(&items[i])
	}
	match.SortFixtures(items)
	return items, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.matches.get(matchID)
	if !ok {
		return match.Match{}, false, nil
	}
	item.Goals = r.store.goals.filter(func(g match.Goal) bool { return g.MatchID == matchID })
	item.Cards = append(
		r.store.yellowCards.filter(func(c match.Card) bool { return c.MatchID == matchID }),
		r.store.redCards.filter(func(c match.Card) bool { return c.MatchID == matchID })...,
	)
	match.SortEvents(&item)
	return item, true, nil
}

func (r *MatchRepository) CreateBatch(_ context.Context, items []match.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range items {
		if r.store.matches.has(item.ID) {
			return fmt.Errorf("match %s already exists", item.ID)
		}
	}
	for _, item := range items {
		r.store.matches.put(item.ID, scalarMatch(item))
	}
	return nil
}

// ReplaceAll swaps the whole schedule under one lock; a rejected batch leaves
// the previous matches and their events in place.
func (r *MatchRepository) ReplaceAll(_ context.Context, items []match.Match) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			return 0, fmt.Errorf("match %s already exists", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	removed := r.store.deleteMatchesLocked(func(match.Match) bool { return true })
	for _, item := range items {
		r.store.matches.put(item.ID, scalarMatch(item))
	}
	return removed, nil
}

func (r *MatchRepository) Update(_ context.Context, item match.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.matches.has(item.ID) {
		return fmt.Errorf("update match %s: %w", item.ID, ErrRecordNotFound)
	}
	r.store.matches.put(item.ID, scalarMatch(item))
	return nil
}

func (r *MatchRepository) AddGoal(_ context.Context, item match.Goal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.matches.has(item.MatchID) {
		return fmt.Errorf("add goal to match %s: %w", item.MatchID, ErrRecordNotFound)
	}
	r.store.goals.put(item.ID, item)
	return nil
}

func (r *MatchRepository) AddCard(_ context.Context, item match.Card) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.matches.has(item.MatchID) {
		return fmt.Errorf("add card to match %s: %w", item.MatchID, ErrRecordNotFound)
	}
	switch item.Type {
	case match.CardYellow:
		r.store.yellowCards.put(item.ID, item)
	case match.CardRed:
		r.store.redCards.put(item.ID, item)
	default:
		return fmt.Errorf("unknown card type %q", item.Type)
	}
	return nil
}

func (r *MatchRepository) DeleteAll(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.deleteMatchesLocked(func(match.Match) bool { return true }), nil
}

func (r *MatchRepository) DeleteByTeam(_ context.Context, teamID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.deleteMatchesLocked(func(m match.Match) bool { return m.Involves(teamID) }), nil
}

func (s *Store) deleteMatchesLocked(pred func(match.Match) bool) int {
	removedIDs := make(map[string]struct{})
	for _, m := range s.matches.filter(pred) {
		removedIDs[m.ID] = struct{}{}
	}
	if len(removedIDs) == 0 {
		return 0
	}

	owned := func(matchID string) bool {
		_, ok := removedIDs[matchID]
		return ok
	}
	s.goals.deleteWhere(func(g match.Goal) bool { return owned(g.MatchID) })
	s.yellowCards.deleteWhere(func(c match.Card) bool { return owned(c.MatchID) })
	s.redCards.deleteWhere(func(c match.Card) bool { return owned(c.MatchID) })
	return s.matches.deleteWhere(func(m match.Match) bool { return owned(m.ID) })
}

// scalarMatch strips the event lists; goals and cards live in their own collections.
func scalarMatch(item match.Match) match.Match {
	item.Goals = nil
	item.Cards = nil
	return item
}
