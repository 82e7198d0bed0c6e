package match

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type CardType string

const (
	CardYellow CardType = "yellow"
	CardRed    CardType = "red"
)

// MaxMinute leaves room for extra time and stoppage time.
const MaxMinute = 130

func NormalizeStatus(value string) Status {
	return Status(strings.ToLower(strings.TrimSpace(value)))
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func NormalizeCardType(value string) CardType {
	return CardType(strings.ToLower(strings.TrimSpace(value)))
}

func (c CardType) Valid() bool {
	return c == CardYellow || c == CardRed
}

// Match is one fixture between two teams of a group.
// Scores are only meaningful once Status is completed.
type Match struct {
	ID          string
	HomeTeamID  string
	AwayTeamID  string
	KickoffAt   time.Time
	Venue       string
	Group       string
	Round       int
	HomeScore   *int
	AwayScore   *int
	Status      Status
	Goals       []Goal
	Cards       []Card
	CompletedAt *time.Time
}

// Goal TeamID is the team whose score the goal increases, which for an own goal
// is the opponent of the scoring player's team.
type Goal struct {
	ID        string
	MatchID   string
	PlayerID  string
	TeamID    string
	Minute    int
	IsOwnGoal bool
}

type Card struct {
	ID       string
	MatchID  string
	PlayerID string
	TeamID   string
	Minute   int
	Type     CardType
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.HomeTeamID == "" || m.AwayTeamID == "" {
		return fmt.Errorf("match home and away teams are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match cannot pair a team with itself")
	}
	if m.Round < 1 {
		return fmt.Errorf("match round must be >= 1")
	}
	if !m.Status.Valid() {
		return fmt.Errorf("invalid match status: %s", m.Status)
	}
	if (m.HomeScore == nil) != (m.AwayScore == nil) {
		return fmt.Errorf("match scores must be set together")
	}
	if m.HomeScore != nil && (*m.HomeScore < 0 || *m.AwayScore < 0) {
		return fmt.Errorf("match scores must be >= 0")
	}

	return nil
}

// Involves reports whether teamID is the home or away side.
func (m Match) Involves(teamID string) bool {
	return teamID != "" && (m.HomeTeamID == teamID || m.AwayTeamID == teamID)
}

// Opponent returns the other side of the match, or "" when teamID does not play in it.
func (m Match) Opponent(teamID string) string {
	switch teamID {
	case m.HomeTeamID:
		return m.AwayTeamID
	case m.AwayTeamID:
		return m.HomeTeamID
	default:
		return ""
	}
}

// Result returns the final score when the match is completed and both scores are set.
func (m Match) Result() (home, away int, ok bool) {
	if m.Status != StatusCompleted || m.HomeScore == nil || m.AwayScore == nil {
		return 0, 0, false
	}
	return *m.HomeScore, *m.AwayScore, true
}

// ScoreFromGoals tallies the goal list per credited team.
func (m Match) ScoreFromGoals() (home, away int) {
	for _, g := range m.Goals {
		switch g.TeamID {
		case m.HomeTeamID:
			home++
		case m.AwayTeamID:
			away++
		}
	}
	return home, away
}

func (g Goal) ValidateFor(m Match) error {
	if g.ID == "" {
		return fmt.Errorf("goal id is required")
	}
	if g.MatchID != m.ID {
		return fmt.Errorf("goal belongs to match %s, not %s", g.MatchID, m.ID)
	}
	if strings.TrimSpace(g.PlayerID) == "" {
		return fmt.Errorf("goal scorer is required")
	}
	if !m.Involves(g.TeamID) {
		return fmt.Errorf("goal team %s does not play in match %s", g.TeamID, m.ID)
	}
	if g.Minute < 0 || g.Minute > MaxMinute {
		return fmt.Errorf("goal minute must be between 0 and %d", MaxMinute)
	}
	return nil
}

func (c Card) ValidateFor(m Match) error {
	if c.ID == "" {
		return fmt.Errorf("card id is required")
	}
	if c.MatchID != m.ID {
		return fmt.Errorf("card belongs to match %s, not %s", c.MatchID, m.ID)
	}
	if strings.TrimSpace(c.PlayerID) == "" {
		return fmt.Errorf("carded player is required")
	}
	if !m.Involves(c.TeamID) {
		return fmt.Errorf("card team %s does not play in match %s", c.TeamID, m.ID)
	}
	if c.Minute < 0 || c.Minute > MaxMinute {
		return fmt.Errorf("card minute must be between 0 and %d", MaxMinute)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("invalid card type: %s", c.Type)
	}
	return nil
}

// SortEvents orders goals and cards by minute; equal minutes keep their recorded order.
func SortEvents(m *Match) {
	sort.SliceStable(m.Goals, func(i, j int) bool { return m.Goals[i].Minute < m.Goals[j].Minute })
	sort.SliceStable(m.Cards, func(i, j int) bool { return m.Cards[i].Minute < m.Cards[j].Minute })
}

// SortFixtures orders matches by round, kickoff, then group.
func SortFixtures(items []Match) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		if !a.KickoffAt.Equal(b.KickoffAt) {
			return a.KickoffAt.Before(b.KickoffAt)
		}
		return a.Group < b.Group
	})
}

func IntPtr(v int) *int {
	return &v
}
