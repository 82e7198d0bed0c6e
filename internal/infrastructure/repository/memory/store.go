package memory

import (
	"errors"
	"sync"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
)

var ErrRecordNotFound = errors.New("record not found")

// Store keeps every collection behind one lock so multi-collection writes,
// such as a team with its roster, land as a single batch.
type Store struct {
	mu sync.RWMutex

	teams       *collection[team.Team]
	players     *collection[player.Player]
	matches     *collection[match.Match]
	goals       *collection[match.Goal]
	yellowCards *collection[match.Card]
	redCards    *collection[match.Card]
}

func NewStore() *Store {
	return &Store{
		teams:       newCollection[team.Team](),
		players:     newCollection[player.Player](),
		matches:     newCollection[match.Match](),
		goals:       newCollection[match.Goal](),
		yellowCards: newCollection[match.Card](),
		redCards:    newCollection[match.Card](),
	}
}

// collection is an insertion-ordered map, the in-memory stand-in for a table.
type collection[T any] struct {
	order []string
	items map[string]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) put(key string, value T) {
	if _, ok := c.items[key]; !ok {
		c.order = append(c.order, key)
	}
	c.items[key] = value
}

func (c *collection[T]) get(key string) (T, bool) {
	value, ok := c.items[key]
	return value, ok
}

func (c *collection[T]) has(key string) bool {
	_, ok := c.items[key]
	return ok
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.items[key])
	}
	return out
}

func (c *collection[T]) filter(keep func(T) bool) []T {
	out := make([]T, 0)
	for _, key := range c.order {
		if item := c.items[key]; keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// deleteWhere removes matching items and returns how many were removed.
func (c *collection[T]) deleteWhere(pred func(T) bool) int {
	kept := c.order[:0]
	removed := 0
	for _, key := range c.order {
		if pred(c.items[key]) {
			delete(c.items, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
	return removed
}

func (c *collection[T]) len() int {
	return len(c.order)
}
