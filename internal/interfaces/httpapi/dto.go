package httpapi

import (
	"time"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
	"github.com/riskibarqy/tournament-admin/internal/usecase"
)

// unresolvedName is rendered in place of a team or player that no longer exists.
const unresolvedName = "not found"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type createTeamRequest struct {
	Name    string `json:"name" validate:"required,max=80"`
	Group   string `json:"group" validate:"required,max=8"`
	LogoURL string `json:"logoUrl" validate:"omitempty,url"`
}

type updateTeamRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=80"`
	Group   *string `json:"group" validate:"omitempty,max=8"`
	LogoURL *string `json:"logoUrl"`
}

type addPlayerRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Number   *int   `json:"number" validate:"required,min=0,max=99"`
	Position string `json:"position" validate:"required"`
}

type updatePlayerRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=80"`
	Number   *int    `json:"number" validate:"omitempty,min=0,max=99"`
	Position *string `json:"position"`
	TeamID   *string `json:"teamId"`
}

type generateScheduleRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	Replace   bool   `json:"replace"`
}

type updateMatchRequest struct {
	Date  *string `json:"date"`
	Time  *string `json:"time"`
	Venue *string `json:"venue"`
	Round *int    `json:"round"`
	Group *string `json:"group"`
}

type recordResultRequest struct {
	HomeScore *int `json:"homeScore" validate:"omitempty,min=0"`
	AwayScore *int `json:"awayScore" validate:"omitempty,min=0"`
}

type addGoalRequest struct {
	PlayerID  string `json:"playerId" validate:"required"`
	TeamID    string `json:"teamId"`
	Minute    int    `json:"minute" validate:"min=0,max=130"`
	IsOwnGoal bool   `json:"isOwnGoal"`
}

type addCardRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	TeamID   string `json:"teamId"`
	Minute   int    `json:"minute" validate:"min=0,max=130"`
	Type     string `json:"type" validate:"required,oneof=yellow red"`
}

type refDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type playerDTO struct {
	ID       string `json:"id"`
	TeamID   string `json:"teamId"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position"`
}

type teamDTO struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Group   string      `json:"group"`
	LogoURL string      `json:"logoUrl,omitempty"`
	Players []playerDTO `json:"players"`
}

type deleteTeamDTO struct {
	ID             string `json:"id"`
	RemovedPlayers int    `json:"removedPlayers"`
	RemovedMatches int    `json:"removedMatches"`
}

type goalDTO struct {
	ID        string `json:"id"`
	Player    refDTO `json:"player"`
	Team      refDTO `json:"team"`
	Minute    int    `json:"minute"`
	IsOwnGoal bool   `json:"isOwnGoal"`
}

type cardDTO struct {
	ID     string `json:"id"`
	Player refDTO `json:"player"`
	Team   refDTO `json:"team"`
	Minute int    `json:"minute"`
	Type   string `json:"type"`
}

type matchDTO struct {
	ID          string    `json:"id"`
	Group       string    `json:"group"`
	Round       int       `json:"round"`
	HomeTeam    refDTO    `json:"homeTeam"`
	AwayTeam    refDTO    `json:"awayTeam"`
	KickoffAt   string    `json:"kickoffAt"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Venue       string    `json:"venue"`
	Status      string    `json:"status"`
	HomeScore   *int      `json:"homeScore"`
	AwayScore   *int      `json:"awayScore"`
	CompletedAt string    `json:"completedAt,omitempty"`
	Goals       []goalDTO `json:"goals"`
	Cards       []cardDTO `json:"cards"`
}

type groupScheduleDTO struct {
	Group   string `json:"group"`
	Teams   int    `json:"teams"`
	Rounds  int    `json:"rounds"`
	Matches int    `json:"matches"`
}

type scheduleResultDTO struct {
	Groups         []groupScheduleDTO `json:"groups"`
	SkippedGroups  []string           `json:"skippedGroups"`
	ReplacedCount  int                `json:"replacedCount"`
	FirstKickoffAt string             `json:"firstKickoffAt,omitempty"`
	Matches        []matchDTO         `json:"matches"`
}

type standingDTO struct {
	Position       int    `json:"position"`
	Team           refDTO `json:"team"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

type groupStandingsDTO struct {
	Group string        `json:"group"`
	Rows  []standingDTO `json:"rows"`
}

type scorerDTO struct {
	Rank   int    `json:"rank"`
	Player refDTO `json:"player"`
	Team   refDTO `json:"team"`
	Goals  int    `json:"goals"`
}

type suspensionDTO struct {
	Player     refDTO `json:"player"`
	Team       refDTO `json:"team"`
	Yellow     int    `json:"yellowCards"`
	Red        int    `json:"redCards"`
	BanMatches int    `json:"banMatches"`
}

type groupLeaderDTO struct {
	Group  string `json:"group"`
	Team   refDTO `json:"team"`
	Points int    `json:"points"`
}

type dashboardDTO struct {
	Version         int64            `json:"version"`
	Teams           int              `json:"teams"`
	Players         int              `json:"players"`
	Matches         int              `json:"matches"`
	MatchesByStatus map[string]int   `json:"matchesByStatus"`
	CompletionPct   int              `json:"completionPct"`
	Goals           int              `json:"goals"`
	OwnGoals        int              `json:"ownGoals"`
	YellowCards     int              `json:"yellowCards"`
	RedCards        int              `json:"redCards"`
	Suspended       int              `json:"suspendedPlayers"`
	Leaders         []groupLeaderDTO `json:"leaders"`
	TopScorer       *scorerDTO       `json:"topScorer"`
	NextMatch       *matchDTO        `json:"nextMatch"`
	RefreshedAt     string           `json:"refreshedAt"`
}

func refToDTO(ref tournament.Ref) refDTO {
	if !ref.Found {
		return refDTO{ID: ref.ID, Name: unresolvedName}
	}
	return refDTO{ID: ref.ID, Name: ref.Name}
}

func teamRef(dir tournament.Directory, teamID string) refDTO {
	ref, _ := dir.Team(teamID)
	return refToDTO(ref)
}

func playerRef(dir tournament.Directory, playerID string) refDTO {
	ref, _ := dir.Player(playerID)
	return refToDTO(ref)
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:       v.ID,
		TeamID:   v.TeamID,
		Name:     v.Name,
		Number:   v.Number,
		Position: string(v.Position),
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:      v.ID,
		Name:    v.Name,
		Group:   v.Group,
		LogoURL: v.LogoURL,
		Players: playersToDTO(v.Players),
	}
}

func matchToDTO(v match.Match, dir tournament.Directory, loc *time.Location) matchDTO {
	kickoff := v.KickoffAt.In(loc)
	out := matchDTO{
		ID:        v.ID,
		Group:     v.Group,
		Round:     v.Round,
		HomeTeam:  teamRef(dir, v.HomeTeamID),
		AwayTeam:  teamRef(dir, v.AwayTeamID),
		KickoffAt: kickoff.Format(time.RFC3339),
		Date:      kickoff.Format(dateLayout),
		Time:      kickoff.Format(timeLayout),
		Venue:     v.Venue,
		Status:    string(v.Status),
		HomeScore: v.HomeScore,
		AwayScore: v.AwayScore,
		Goals:     make([]goalDTO, 0, len(v.Goals)),
		Cards:     make([]cardDTO, 0, len(v.Cards)),
	}
	if v.CompletedAt != nil {
		out.CompletedAt = v.CompletedAt.In(loc).Format(time.RFC3339)
	}
	for _, g := range v.Goals {
		out.Goals = append(out.Goals, goalToDTO(g, dir))
	}
	for _, c := range v.Cards {
		out.Cards = append(out.Cards, cardToDTO(c, dir))
	}
	return out
}

func matchesToDTO(items []match.Match, dir tournament.Directory, loc *time.Location) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item, dir, loc))
	}
	return out
}

func goalToDTO(v match.Goal, dir tournament.Directory) goalDTO {
	return goalDTO{
		ID:        v.ID,
		Player:    playerRef(dir, v.PlayerID),
		Team:      teamRef(dir, v.TeamID),
		Minute:    v.Minute,
		IsOwnGoal: v.IsOwnGoal,
	}
}

func cardToDTO(v match.Card, dir tournament.Directory) cardDTO {
	return cardDTO{
		ID:     v.ID,
		Player: playerRef(dir, v.PlayerID),
		Team:   teamRef(dir, v.TeamID),
		Minute: v.Minute,
		Type:   string(v.Type),
	}
}

func scheduleResultToDTO(v usecase.GenerateScheduleResult, dir tournament.Directory, loc *time.Location) scheduleResultDTO {
	out := scheduleResultDTO{
		Groups:        make([]groupScheduleDTO, 0, len(v.Groups)),
		SkippedGroups: append([]string{}, v.SkippedGroups...),
		ReplacedCount: v.ReplacedCount,
		Matches:       matchesToDTO(v.Matches, dir, loc),
	}
	for _, g := range v.Groups {
		out.Groups = append(out.Groups, groupScheduleDTO{Group: g.Group, Teams: g.Teams, Rounds: g.Rounds, Matches: g.Matches})
	}
	if !v.FirstKickoffAt.IsZero() {
		out.FirstKickoffAt = v.FirstKickoffAt.In(loc).Format(time.RFC3339)
	}
	return out
}

func standingsToDTO(items []tournament.GroupStandings, dir tournament.Directory) []groupStandingsDTO {
	out := make([]groupStandingsDTO, 0, len(items))
	for _, table := range items {
		rows := make([]standingDTO, 0, len(table.Rows))
		for _, row := range table.Rows {
			rows = append(rows, standingDTO{
				Position:       row.Position,
				Team:           teamRef(dir, row.TeamID),
				Played:         row.Played,
				Won:            row.Won,
				Drawn:          row.Drawn,
				Lost:           row.Lost,
				GoalsFor:       row.GoalsFor,
				GoalsAgainst:   row.GoalsAgainst,
				GoalDifference: row.GoalDifference,
				Points:         row.Points,
			})
		}
		out = append(out, groupStandingsDTO{Group: table.Group, Rows: rows})
	}
	return out
}

// scorersToDTO ranks scorers with shared ranks for equal goal counts.
func scorersToDTO(items []tournament.ScorerEntry, dir tournament.Directory) []scorerDTO {
	out := make([]scorerDTO, 0, len(items))
	rank := 0
	for i, item := range items {
		if i == 0 || item.Goals != items[i-1].Goals {
			rank = i + 1
		}
		out = append(out, scorerToDTO(item, rank, dir))
	}
	return out
}

func scorerToDTO(v tournament.ScorerEntry, rank int, dir tournament.Directory) scorerDTO {
	return scorerDTO{
		Rank:   rank,
		Player: playerRef(dir, v.PlayerID),
		Team:   teamRef(dir, v.TeamID),
		Goals:  v.Goals,
	}
}

func suspensionsToDTO(items []tournament.Suspension) []suspensionDTO {
	out := make([]suspensionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, suspensionDTO{
			Player:     refToDTO(item.Player),
			Team:       refToDTO(item.Team),
			Yellow:     item.Yellow,
			Red:        item.Red,
			BanMatches: item.BanMatches,
		})
	}
	return out
}

func dashboardToDTO(v usecase.Dashboard, dir tournament.Directory, loc *time.Location) dashboardDTO {
	out := dashboardDTO{
		Version:         v.Version,
		Teams:           v.Teams,
		Players:         v.Players,
		Matches:         v.Matches,
		MatchesByStatus: make(map[string]int, len(v.MatchesByStatus)),
		CompletionPct:   v.CompletionPct,
		Goals:           v.Goals,
		OwnGoals:        v.OwnGoals,
		YellowCards:     v.YellowCards,
		RedCards:        v.RedCards,
		Suspended:       v.Suspended,
		Leaders:         make([]groupLeaderDTO, 0, len(v.Leaders)),
	}
	for status, count := range v.MatchesByStatus {
		out.MatchesByStatus[string(status)] = count
	}
	for _, leader := range v.Leaders {
		out.Leaders = append(out.Leaders, groupLeaderDTO{Group: leader.Group, Team: teamRef(dir, leader.TeamID), Points: leader.Points})
	}
	if v.TopScorer != nil {
		top := scorerToDTO(*v.TopScorer, 1, dir)
		out.TopScorer = &top
	}
	if v.NextMatch != nil {
		next := matchToDTO(*v.NextMatch, dir, loc)
		out.NextMatch = &next
	}
	if !v.RefreshedAt.IsZero() {
		out.RefreshedAt = v.RefreshedAt.UTC().Format(time.RFC3339Nano)
	}
	return out
}
