package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
	"github.com/riskibarqy/tournament-admin/internal/platform/id"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const matchTimeLayout = "15:04"

type UpdateMatchInput struct {
	Date  *string // YYYY-MM-DD
	Time  *string // HH:MM
	Venue *string
	Round *int
	Group *string
}

// RecordResultInput leaves both scores nil to take the score from the goal list.
type RecordResultInput struct {
	HomeScore *int
	AwayScore *int
}

// AddGoalInput may omit TeamID; it is then resolved from the player's team,
// crediting the opponent for an own goal.
type AddGoalInput struct {
	PlayerID  string
	TeamID    string
	Minute    int
	IsOwnGoal bool
}

type AddCardInput struct {
	PlayerID string
	TeamID   string
	Minute   int
	Type     string
}

type MatchService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	ids        id.Generator
	state      *StateController
	clock      clockwork.Clock
	location   *time.Location
	logger     *logging.Logger
}

func NewMatchService(
	matchRepo match.Repository,
	playerRepo player.Repository,
	ids id.Generator,
	state *StateController,
	clock clockwork.Clock,
	location *time.Location,
	logger *logging.Logger,
) *MatchService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		ids:        ids,
		state:      state,
		clock:      clock,
		location:   location,
		logger:     logger,
	}
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startSpan(ctx, "MatchService.Get", attribute.String("match_id", matchID))
	defer span.End()

	return s.getMatch(ctx, matchID)
}

func (s *MatchService) UpdateDetails(ctx context.Context, matchID string, input UpdateMatchInput) (match.Match, error) {
	ctx, span := startSpan(ctx, "MatchService.UpdateDetails", attribute.String("match_id", matchID))
	defer span.End()

	item, err := s.getMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}

	kickoff := item.KickoffAt.In(s.location)
	if input.Date != nil {
		day, err := time.ParseInLocation(scheduleDateLayout, strings.TrimSpace(*input.Date), s.location)
		if err != nil {
			return match.Match{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		kickoff = time.Date(day.Year(), day.Month(), day.Day(), kickoff.Hour(), kickoff.Minute(), 0, 0, s.location)
	}
	if input.Time != nil {
		clock, err := time.Parse(matchTimeLayout, strings.TrimSpace(*input.Time))
		if err != nil {
			return match.Match{}, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
		}
		kickoff = time.Date(kickoff.Year(), kickoff.Month(), kickoff.Day(), clock.Hour(), clock.Minute(), 0, 0, s.location)
	}
	item.KickoffAt = kickoff

	if input.Venue != nil {
		item.Venue = strings.TrimSpace(*input.Venue)
	}
	if input.Round != nil {
		item.Round = *input.Round
	}
	if input.Group != nil {
		item.Group = team.NormalizeGroup(*input.Group)
	}
	if err := item.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.persist(ctx, item, "match.updated")
}

// RecordResult marks the match completed with either the given score or the
// score implied by its goals.
func (s *MatchService) RecordResult(ctx context.Context, matchID string, input RecordResultInput) (match.Match, error) {
	ctx, span := startSpan(ctx, "MatchService.RecordResult", attribute.String("match_id", matchID))
	defer span.End()

	item, err := s.getMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if item.Status == match.StatusCancelled {
		return match.Match{}, fmt.Errorf("%w: match %s is cancelled", ErrConflict, matchID)
	}

	var home, away int
	switch {
	case input.HomeScore == nil && input.AwayScore == nil:
		home, away = item.ScoreFromGoals()
	case input.HomeScore == nil || input.AwayScore == nil:
		return match.Match{}, fmt.Errorf("%w: home and away scores must be given together", ErrInvalidInput)
	default:
		home, away = *input.HomeScore, *input.AwayScore
	}

	completedAt := s.clock.Now().UTC()
	item.HomeScore = match.IntPtr(home)
	item.AwayScore = match.IntPtr(away)
	item.Status = match.StatusCompleted
	item.CompletedAt = &completedAt
	if err := item.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.persist(ctx, item, "match.completed")
}

func (s *MatchService) Cancel(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startSpan(ctx, "MatchService.Cancel", attribute.String("match_id", matchID))
	defer span.End()

	item, err := s.getMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if item.Status == match.StatusCancelled {
		return item, nil
	}

	item.Status = match.StatusCancelled
	item.HomeScore, item.AwayScore, item.CompletedAt = nil, nil, nil
	return s.persist(ctx, item, "match.cancelled")
}

// Reopen puts a completed or cancelled match back to scheduled and drops its score.
func (s *MatchService) Reopen(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startSpan(ctx, "MatchService.Reopen", attribute.String("match_id", matchID))
	defer span.End()

	item, err := s.getMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if item.Status == match.StatusScheduled {
		return item, nil
	}

	item.Status = match.StatusScheduled
	item.HomeScore, item.AwayScore, item.CompletedAt = nil, nil, nil
	return s.persist(ctx, item, "match.reopened")
}

func (s *MatchService) AddGoal(ctx context.Context, matchID string, input AddGoalInput) (match.Goal, error) {
	ctx, span := startSpan(ctx, "MatchService.AddGoal", attribute.String("match_id", matchID))
	defer span.End()

	item, err := s.getMatch(ctx, matchID)
	if err != nil {
		return match.Goal{}, err
	}

	playerID := strings.TrimSpace(input.PlayerID)
	if playerID == "" {
		return match.Goal{}, fmt.Errorf("%w: goal scorer is required", ErrInvalidInput)
	}
	teamID := strings.TrimSpace(input.TeamID)
	if teamID == "" {
		ownTeam, err := s.playerTeam(ctx, playerID)
		if err != nil {
			return match.Goal{}, err
		}
		teamID = ownTeam
		if input.IsOwnGoal {
			teamID = item.Opponent(ownTeam)
		}
	}

	goalID, err := s.ids.NewID()
	if err != nil {
		return match.Goal{}, fmt.Errorf("generate goal id: %w", err)
	}
	goal := match.Goal{
		ID:        goalID,
		MatchID:   item.ID,
		PlayerID:  playerID,
		TeamID:    teamID,
		Minute:    input.Minute,
		IsOwnGoal: input.IsOwnGoal,
	}
	if err := goal.ValidateFor(item); err != nil {
		return match.Goal{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.matchRepo.AddGoal(ctx, goal); err != nil {
		s.logger.ErrorContext(ctx, "add goal failed", "match_id", item.ID, "player_id", playerID, "error", err)
		return match.Goal{}, fmt.Errorf("add goal: %w", err)
	}

	s.state.refreshAfterWrite(ctx, "match.goal_added")
	return goal, nil
}

func (s *MatchService) AddCard(ctx context.Context, matchID string, input AddCardInput) (match.Card, error) {
	ctx, span := startSpan(ctx, "MatchService.AddCard", attribute.String("match_id", matchID))
	defer span.End()

	item, err := s.getMatch(ctx, matchID)
	if err != nil {
		return match.Card{}, err
	}

	playerID := strings.TrimSpace(input.PlayerID)
	if playerID == "" {
		return match.Card{}, fmt.Errorf("%w: carded player is required", ErrInvalidInput)
	}
	teamID := strings.TrimSpace(input.TeamID)
	if teamID == "" {
		teamID, err = s.playerTeam(ctx, playerID)
		if err != nil {
			return match.Card{}, err
		}
	}

	cardID, err := s.ids.NewID()
	if err != nil {
		return match.Card{}, fmt.Errorf("generate card id: %w", err)
	}
	card := match.Card{
		ID:       cardID,
		MatchID:  item.ID,
		PlayerID: playerID,
		TeamID:   teamID,
		Minute:   input.Minute,
		Type:     match.NormalizeCardType(input.Type),
	}
	if err := card.ValidateFor(item); err != nil {
		return match.Card{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.matchRepo.AddCard(ctx, card); err != nil {
		s.logger.ErrorContext(ctx, "add card failed", "match_id", item.ID, "player_id", playerID, "error", err)
		return match.Card{}, fmt.Errorf("add card: %w", err)
	}

	s.state.refreshAfterWrite(ctx, "match.card_added")
	return card, nil
}

func (s *MatchService) persist(ctx context.Context, item match.Match, reason string) (match.Match, error) {
	if err := s.matchRepo.Update(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "update match failed", "match_id", item.ID, "reason", reason, "error", err)
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}

	s.state.refreshAfterWrite(ctx, reason)
	return item, nil
}

func (s *MatchService) getMatch(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

func (s *MatchService) playerTeam(ctx context.Context, playerID string) (string, error) {
	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return "", fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: player %s not found and no team given", ErrInvalidInput, playerID)
	}
	return item.TeamID, nil
}
