package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
	"github.com/riskibarqy/tournament-admin/internal/platform/id"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const scheduleDateLayout = "2006-01-02"

// ScheduleSettings are the venue and calendar defaults applied to generated fixtures.
type ScheduleSettings struct {
	Venue         string
	KickoffTime   time.Duration // offset from midnight
	RoundInterval time.Duration
	Location      *time.Location
	Workers       int
}

func DefaultScheduleSettings() ScheduleSettings {
	return ScheduleSettings{
		Venue:         "TBD",
		KickoffTime:   15 * time.Hour,
		RoundInterval: tournament.DefaultRoundInterval,
		Location:      time.UTC,
		Workers:       4,
	}
}

type GenerateScheduleInput struct {
	StartDate string
	Replace   bool
}

type GroupScheduleSummary struct {
	Group   string
	Teams   int
	Rounds  int
	Matches int
}

type GenerateScheduleResult struct {
	Matches        []match.Match
	Groups         []GroupScheduleSummary
	SkippedGroups  []string
	ReplacedCount  int
	FirstKickoffAt time.Time
}

type MatchFilter struct {
	Group  string
	Round  int
	Status string
	TeamID string
}

type ScheduleService struct {
	teamRepo  team.Repository
	matchRepo match.Repository
	ids       id.Generator
	state     *StateController
	settings  ScheduleSettings
	logger    *logging.Logger
}

func NewScheduleService(
	teamRepo team.Repository,
	matchRepo match.Repository,
	ids id.Generator,
	state *StateController,
	settings ScheduleSettings,
	logger *logging.Logger,
) *ScheduleService {
	defaults := DefaultScheduleSettings()
	if settings.Location == nil {
		settings.Location = defaults.Location
	}
	if settings.RoundInterval <= 0 {
		settings.RoundInterval = defaults.RoundInterval
	}
	if settings.Workers <= 0 {
		settings.Workers = defaults.Workers
	}
	if strings.TrimSpace(settings.Venue) == "" {
		settings.Venue = defaults.Venue
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		ids:       ids,
		state:     state,
		settings:  settings,
		logger:    logger,
	}
}

// Generate builds a fresh round robin for every group. An existing schedule is
// only replaced when asked to, so fixtures are never duplicated.
func (s *ScheduleService) Generate(ctx context.Context, input GenerateScheduleInput) (GenerateScheduleResult, error) {
	ctx, span := startSpan(ctx, "ScheduleService.Generate",
		attribute.String("start_date", input.StartDate),
		attribute.Bool("replace", input.Replace),
	)
	defer span.End()

	start, err := s.parseStartDate(input.StartDate)
	if err != nil {
		return GenerateScheduleResult{}, err
	}

	teams, err := s.teamRepo.ListWithPlayers(ctx)
	if err != nil {
		return GenerateScheduleResult{}, fmt.Errorf("list teams: %w", err)
	}
	existing, err := s.matchRepo.ListWithEvents(ctx)
	if err != nil {
		return GenerateScheduleResult{}, fmt.Errorf("list matches: %w", err)
	}
	if len(existing) > 0 && !input.Replace {
		return GenerateScheduleResult{}, fmt.Errorf("%w: a schedule with %d matches already exists", ErrConflict, len(existing))
	}

	opts := tournament.ScheduleOptions{
		StartDate:     start,
		RoundInterval: s.settings.RoundInterval,
		Venue:         s.settings.Venue,
	}
	groups := tournament.GroupTeams(teams)
	scheduled, skipped, err := s.scheduleGroups(ctx, groups, opts)
	if err != nil {
		return GenerateScheduleResult{}, err
	}

	result := GenerateScheduleResult{
		Groups:         make([]GroupScheduleSummary, 0, len(scheduled)),
		SkippedGroups:  skipped,
		FirstKickoffAt: start,
	}
	all := make([]match.Match, 0)
	for _, g := range scheduled {
		result.Groups = append(result.Groups, GroupScheduleSummary{
			Group:   g.Group,
			Teams:   len(g.TeamIDs),
			Rounds:  g.Rounds,
			Matches: len(g.Matches),
		})
		all = append(all, g.Matches...)
	}
	match.SortFixtures(all)
	for i := range all {
		matchID, err := s.ids.NewID()
		if err != nil {
			return GenerateScheduleResult{}, fmt.Errorf("generate match id: %w", err)
		}
		all[i].ID = matchID
	}

	switch {
	case len(existing) > 0:
		removed, err := s.matchRepo.ReplaceAll(ctx, all)
		if err != nil {
			s.logger.ErrorContext(ctx, "replace schedule failed", "previous", len(existing), "matches", len(all), "error", err)
			return GenerateScheduleResult{}, fmt.Errorf("replace matches: %w", err)
		}
		result.ReplacedCount = removed
	case len(all) > 0:
		if err := s.matchRepo.CreateBatch(ctx, all); err != nil {
			s.logger.ErrorContext(ctx, "persist schedule failed", "matches", len(all), "error", err)
			return GenerateScheduleResult{}, fmt.Errorf("create matches: %w", err)
		}
	}
	result.Matches = all

	s.logger.InfoContext(ctx, "schedule generated",
		"start_date", start.Format(scheduleDateLayout),
		"groups", len(result.Groups),
		"matches", len(all),
		"skipped_groups", skipped,
		"replaced", result.ReplacedCount,
	)
	s.state.refreshAfterWrite(ctx, "schedule.generated")
	return result, nil
}

// scheduleGroups fans the groups out over an ants pool; each group is independent.
func (s *ScheduleService) scheduleGroups(ctx context.Context, groups []tournament.TeamGroup, opts tournament.ScheduleOptions) ([]tournament.GroupSchedule, []string, error) {
	if len(groups) == 0 {
		return nil, nil, nil
	}

	workers := s.settings.Workers
	if workers > len(groups) {
		workers = len(groups)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, nil, fmt.Errorf("create schedule worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]tournament.GroupSchedule, len(groups))
	errs := make([]error, len(groups))
	var wg sync.WaitGroup
	for i, group := range groups {
		i, group := i, group
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = tournament.ScheduleGroup(group, opts)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	scheduled := make([]tournament.GroupSchedule, 0, len(groups))
	skipped := make([]string, 0)
	for i, err := range errs {
		switch {
		case err == nil:
			scheduled = append(scheduled, results[i])
		case errors.Is(err, tournament.ErrGroupTooSmall):
			s.logger.WarnContext(ctx, "group skipped from schedule", "group", groups[i].Group, "teams", len(groups[i].TeamIDs))
			skipped = append(skipped, groups[i].Group)
		default:
			return nil, nil, fmt.Errorf("schedule group %s: %w", groups[i].Group, err)
		}
	}
	return scheduled, skipped, nil
}

// Clear removes every match with its goals and cards.
func (s *ScheduleService) Clear(ctx context.Context) (int, error) {
	ctx, span := startSpan(ctx, "ScheduleService.Clear")
	defer span.End()

	removed, err := s.matchRepo.DeleteAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "clear schedule failed", "error", err)
		return 0, fmt.Errorf("clear schedule: %w", err)
	}

	s.state.refreshAfterWrite(ctx, "schedule.cleared")
	return removed, nil
}

// List filters the matches of the current state.
func (s *ScheduleService) List(ctx context.Context, filter MatchFilter) ([]match.Match, error) {
	ctx, span := startSpan(ctx, "ScheduleService.List")
	defer span.End()

	status := match.NormalizeStatus(filter.Status)
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, filter.Status)
	}
	if filter.Round < 0 {
		return nil, fmt.Errorf("%w: round must be >= 1", ErrInvalidInput)
	}

	st, err := s.state.Current(ctx)
	if err != nil {
		return nil, err
	}

	group := team.NormalizeGroup(filter.Group)
	teamID := strings.TrimSpace(filter.TeamID)
	out := make([]match.Match, 0, len(st.Snapshot.Matches))
	for _, m := range st.Snapshot.Matches {
		if group != "" && team.NormalizeGroup(m.Group) != group {
			continue
		}
		if filter.Round > 0 && m.Round != filter.Round {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		if teamID != "" && !m.Involves(teamID) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *ScheduleService) parseStartDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, tournament.ErrStartDateRequired)
	}
	day, err := time.ParseInLocation(scheduleDateLayout, value, s.settings.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start date must be YYYY-MM-DD: %v", ErrInvalidInput, err)
	}
	kickoff := s.settings.KickoffTime
	hour, minute := int(kickoff/time.Hour), int(kickoff%time.Hour/time.Minute)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, s.settings.Location), nil
}
