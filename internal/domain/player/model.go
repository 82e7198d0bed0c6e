package player

import (
	"fmt"
	"sort"
	"strings"
)

// Position is the on-pitch role printed on the team sheet.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

const MaxShirtNumber = 99

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Player belongs to exactly one team at a time.
type Player struct {
	ID       string
	TeamID   string
	Name     string
	Number   int
	Position Position
}

func NormalizePosition(value string) Position {
	return Position(strings.ToUpper(strings.TrimSpace(value)))
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Number < 0 || p.Number > MaxShirtNumber {
		return fmt.Errorf("player number must be between 0 and %d", MaxShirtNumber)
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}

	return nil
}

// SortBySquadNumber orders players by shirt number, then id.
func SortBySquadNumber(items []Player) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Number != items[j].Number {
			return items[i].Number < items[j].Number
		}
		return items[i].ID < items[j].ID
	})
}
