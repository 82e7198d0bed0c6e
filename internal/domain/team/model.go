package team

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/tournament-admin/internal/domain/player"
)

// Team is a tournament entrant placed in one group.
type Team struct {
	ID      string
	Name    string
	Group   string
	LogoURL string
	Players []player.Player
}

// NormalizeGroup trims and upper-cases a group label so "a " and "A" are the same group.
func NormalizeGroup(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if strings.TrimSpace(t.Group) == "" {
		return fmt.Errorf("team group is required")
	}

	return nil
}

// PlayerIDs returns the ids of the roster in roster order.
func (t Team) PlayerIDs() []string {
	out := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		out = append(out, p.ID)
	}
	return out
}
