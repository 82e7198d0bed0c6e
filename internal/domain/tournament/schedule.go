package tournament

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
)

var (
	ErrStartDateRequired = errors.New("schedule start date is required")
	ErrGroupTooSmall     = errors.New("group needs at least two teams")
)

const DefaultRoundInterval = 24 * time.Hour

// DateAssigner maps a 1-based round number to its kickoff time.
type DateAssigner interface {
	KickoffAt(round int) time.Time
}

// FixedInterval plays round 1 at Start and every later round Interval apart.
// Whole days of Interval are counted on the calendar of Start's location, so
// kickoffs keep their local time of day across daylight saving changes.
type FixedInterval struct {
	Start    time.Time
	Interval time.Duration
}

func (f FixedInterval) KickoffAt(round int) time.Time {
	interval := f.Interval
	if interval <= 0 {
		interval = DefaultRoundInterval
	}
	if round < 1 {
		round = 1
	}

	steps := round - 1
	days := int(interval / (24 * time.Hour))
	rest := interval % (24 * time.Hour)
	s := f.Start
	day := time.Date(s.Year(), s.Month(), s.Day()+steps*days, s.Hour(), s.Minute(), s.Second(), s.Nanosecond(), s.Location())
	return day.Add(time.Duration(steps) * rest)
}

type ScheduleOptions struct {
	// StartDate is the kickoff of round 1, date and time of day.
	StartDate     time.Time
	RoundInterval time.Duration
	Venue         string
	// Dates overrides the FixedInterval policy built from StartDate and RoundInterval.
	Dates DateAssigner
}

func (o ScheduleOptions) dates() DateAssigner {
	if o.Dates != nil {
		return o.Dates
	}
	return FixedInterval{Start: o.StartDate, Interval: o.RoundInterval}
}

// Pairing holds indexes into a group's team list.
type Pairing struct {
	Home int
	Away int
}

// TeamGroup is the ordered list of team ids that share a group label.
type TeamGroup struct {
	Group   string
	TeamIDs []string
}

type GroupSchedule struct {
	Group   string
	TeamIDs []string
	Rounds  int
	Matches []match.Match
}

type Schedule struct {
	Groups        []GroupSchedule
	SkippedGroups []string
}

// Matches flattens every group's fixtures in round, kickoff, group order.
func (s Schedule) Matches() []match.Match {
	total := 0
	for _, g := range s.Groups {
		total += len(g.Matches)
	}
	out := make([]match.Match, 0, total)
	for _, g := range s.Groups {
		out = append(out, g.Matches...)
	}
	match.SortFixtures(out)
	return out
}

// GroupTeams buckets teams by group label. Groups come back sorted by label and
// keep the input order of their teams.
func GroupTeams(teams []team.Team) []TeamGroup {
	index := make(map[string]int)
	groups := make([]TeamGroup, 0)
	for _, t := range teams {
		label := team.NormalizeGroup(t.Group)
		if label == "" || t.ID == "" {
			continue
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, TeamGroup{Group: label})
		}
		groups[i].TeamIDs = append(groups[i].TeamIDs, t.ID)
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })
	return groups
}

// RoundRobinPairings builds a single round robin for n teams with the circle method:
// index 0 stays fixed and the last slot moves to index 1 after every round.
// An odd n gets a bye slot whose pairings are dropped.
func RoundRobinPairings(n int) [][]Pairing {
	if n < 2 {
		return nil
	}

	const bye = -1
	slots := make([]int, n, n+1)
	for i := range slots {
		slots[i] = i
	}
	if n%2 != 0 {
		slots = append(slots, bye)
	}

	size := len(slots)
	rounds := make([][]Pairing, 0, size-1)
	for r := 0; r < size-1; r++ {
		round := make([]Pairing, 0, size/2)
		for i := 0; i < size/2; i++ {
			home, away := slots[i], slots[size-1-i]
			if home == bye || away == bye || home == away {
				continue
			}
			round = append(round, Pairing{Home: home, Away: away})
		}
		rounds = append(rounds, round)

		last := slots[size-1]
		copy(slots[2:], slots[1:size-1])
		slots[1] = last
	}

	return rounds
}

// ScheduleGroup emits the scheduled fixtures of one group. Match ids are left empty.
func ScheduleGroup(group TeamGroup, opts ScheduleOptions) (GroupSchedule, error) {
	if opts.StartDate.IsZero() {
		return GroupSchedule{}, ErrStartDateRequired
	}
	if len(group.TeamIDs) < 2 {
		return GroupSchedule{}, fmt.Errorf("%w: group %s has %d", ErrGroupTooSmall, group.Group, len(group.TeamIDs))
	}

	dates := opts.dates()
	rounds := RoundRobinPairings(len(group.TeamIDs))
	out := GroupSchedule{
		Group:   group.Group,
		TeamIDs: append([]string(nil), group.TeamIDs...),
		Rounds:  len(rounds),
		Matches: make([]match.Match, 0, len(group.TeamIDs)*(len(group.TeamIDs)-1)/2),
	}
	for r, pairings := range rounds {
		roundNo := r + 1
		kickoff := dates.KickoffAt(roundNo)
		for _, p := range pairings {
			out.Matches = append(out.Matches, match.Match{
				HomeTeamID: group.TeamIDs[p.Home],
				AwayTeamID: group.TeamIDs[p.Away],
				KickoffAt:  kickoff,
				Venue:      opts.Venue,
				Group:      group.Group,
				Round:      roundNo,
				Status:     match.StatusScheduled,
				Goals:      []match.Goal{},
				Cards:      []match.Card{},
			})
		}
	}

	return out, nil
}

// GenerateRoundRobin schedules every group of the roster. Groups with fewer than
// two teams are reported in SkippedGroups instead of failing the run.
func GenerateRoundRobin(teams []team.Team, opts ScheduleOptions) (Schedule, error) {
	if opts.StartDate.IsZero() {
		return Schedule{}, ErrStartDateRequired
	}

	var out Schedule
	for _, group := range GroupTeams(teams) {
		scheduled, err := ScheduleGroup(group, opts)
		if errors.Is(err, ErrGroupTooSmall) {
			out.SkippedGroups = append(out.SkippedGroups, group.Group)
			continue
		}
		if err != nil {
			return Schedule{}, err
		}
		out.Groups = append(out.Groups, scheduled)
	}

	return out, nil
}
