package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Group     string     `db:"group_name"`
	LogoURL   string     `db:"logo_url"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
	Group    string `db:"group_name"`
	LogoURL  string `db:"logo_url"`
}

type playerTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	TeamID    string     `db:"team_public_id"`
	Name      string     `db:"name"`
	Number    int        `db:"shirt_number"`
	Position  string     `db:"position"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	PublicID string `db:"public_id"`
	TeamID   string `db:"team_public_id"`
	Name     string `db:"name"`
	Number   int    `db:"shirt_number"`
	Position string `db:"position"`
}

type matchTableModel struct {
	ID          int64         `db:"id"`
	PublicID    string        `db:"public_id"`
	HomeTeamID  string        `db:"home_team_public_id"`
	AwayTeamID  string        `db:"away_team_public_id"`
	KickoffAt   time.Time     `db:"kickoff_at"`
	Venue       string        `db:"venue"`
	Group       string        `db:"group_name"`
	Round       int           `db:"round"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	Status      string        `db:"status"`
	CompletedAt *time.Time    `db:"completed_at"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
	DeletedAt   *time.Time    `db:"deleted_at"`
}

type matchInsertModel struct {
	PublicID    string        `db:"public_id"`
	HomeTeamID  string        `db:"home_team_public_id"`
	AwayTeamID  string        `db:"away_team_public_id"`
	KickoffAt   time.Time     `db:"kickoff_at"`
	Venue       string        `db:"venue"`
	Group       string        `db:"group_name"`
	Round       int           `db:"round"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	Status      string        `db:"status"`
	CompletedAt *time.Time    `db:"completed_at"`
}

type goalTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	MatchID   string     `db:"match_public_id"`
	PlayerID  string     `db:"player_public_id"`
	TeamID    string     `db:"team_public_id"`
	Minute    int        `db:"minute"`
	IsOwnGoal bool       `db:"is_own_goal"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type goalInsertModel struct {
	PublicID  string `db:"public_id"`
	MatchID   string `db:"match_public_id"`
	PlayerID  string `db:"player_public_id"`
	TeamID    string `db:"team_public_id"`
	Minute    int    `db:"minute"`
	IsOwnGoal bool   `db:"is_own_goal"`
}

// cardTableModel maps both yellow_cards and red_cards; the table decides the card type.
type cardTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	MatchID   string     `db:"match_public_id"`
	PlayerID  string     `db:"player_public_id"`
	TeamID    string     `db:"team_public_id"`
	Minute    int        `db:"minute"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type cardInsertModel struct {
	PublicID string `db:"public_id"`
	MatchID  string `db:"match_public_id"`
	PlayerID string `db:"player_public_id"`
	TeamID   string `db:"team_public_id"`
	Minute   int    `db:"minute"`
}
