package tournament

import (
	"sort"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
)

const (
	PointsForWin  = 3
	PointsForDraw = 1
)

// Standing is one team's row in its group table.
type Standing struct {
	Group          string
	TeamID         string
	Position       int
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

type GroupStandings struct {
	Group string
	Rows  []Standing
}

// CalculateStandings folds completed matches into one ranked table per group.
// Every team of a group gets a row even before it has played.
func CalculateStandings(teams []team.Team, matches []match.Match) []GroupStandings {
	groups := GroupTeams(teams)
	out := make([]GroupStandings, 0, len(groups))
	for _, group := range groups {
		out = append(out, GroupStandings{
			Group: group.Group,
			Rows:  groupTable(group, matches),
		})
	}
	return out
}

func groupTable(group TeamGroup, matches []match.Match) []Standing {
	rows := make([]Standing, len(group.TeamIDs))
	index := make(map[string]int, len(group.TeamIDs))
	for i, teamID := range group.TeamIDs {
		rows[i] = Standing{Group: group.Group, TeamID: teamID}
		index[teamID] = i
	}

	for _, m := range matches {
		home, away, ok := m.Result()
		if !ok || !countsToward(m, group.Group, index) {
			continue
		}
		if i, ok := index[m.HomeTeamID]; ok {
			applyResult(&rows[i], home, away)
		}
		if i, ok := index[m.AwayTeamID]; ok {
			applyResult(&rows[i], away, home)
		}
	}

	RankStandings(rows)
	return rows
}

// countsToward accepts matches labelled with the group, or whose two teams both
// sit in it, so fixtures recorded without a group label still count.
func countsToward(m match.Match, group string, members map[string]int) bool {
	if team.NormalizeGroup(m.Group) == group {
		return true
	}
	_, home := members[m.HomeTeamID]
	_, away := members[m.AwayTeamID]
	return home && away
}

func applyResult(row *Standing, scored, conceded int) {
	row.Played++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst

	switch {
	case scored > conceded:
		row.Won++
		row.Points += PointsForWin
	case scored == conceded:
		row.Drawn++
		row.Points += PointsForDraw
	default:
		row.Lost++
	}
}

// RankStandings sorts by points, goal difference, goals for, then team id, and
// numbers the rows from 1.
func RankStandings(rows []Standing) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
}
