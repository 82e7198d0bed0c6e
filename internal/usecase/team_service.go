package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
	"github.com/riskibarqy/tournament-admin/internal/platform/id"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// TeamDeletePolicy decides what happens to matches that still reference a deleted team.
type TeamDeletePolicy string

const (
	// TeamDeleteKeep leaves the matches in place; their team shows up as unresolved.
	TeamDeleteKeep TeamDeletePolicy = "keep"
	// TeamDeleteReject refuses the delete while any match references the team.
	TeamDeleteReject TeamDeletePolicy = "reject"
	// TeamDeleteCascade removes the referencing matches with their goals and cards.
	TeamDeleteCascade TeamDeletePolicy = "cascade"
)

func ParseTeamDeletePolicy(value string) (TeamDeletePolicy, error) {
	switch policy := TeamDeletePolicy(strings.ToLower(strings.TrimSpace(value))); policy {
	case "":
		return TeamDeleteKeep, nil
	case TeamDeleteKeep, TeamDeleteReject, TeamDeleteCascade:
		return policy, nil
	default:
		return "", fmt.Errorf("%w: unknown team delete policy %q", ErrInvalidInput, value)
	}
}

type CreateTeamInput struct {
	Name    string
	Group   string
	LogoURL string
}

type UpdateTeamInput struct {
	Name    *string
	Group   *string
	LogoURL *string
}

type PlayerInput struct {
	Name     string
	Number   int
	Position string
}

type UpdatePlayerInput struct {
	Name     *string
	Number   *int
	Position *string
	// TeamID moves the player to another team.
	TeamID *string
}

type DeleteTeamResult struct {
	RemovedPlayers int
	RemovedMatches int
}

type TeamService struct {
	teamRepo     team.Repository
	playerRepo   player.Repository
	matchRepo    match.Repository
	ids          id.Generator
	state        *StateController
	deletePolicy TeamDeletePolicy
	logger       *logging.Logger
}

func NewTeamService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	ids id.Generator,
	state *StateController,
	deletePolicy TeamDeletePolicy,
	logger *logging.Logger,
) *TeamService {
	if deletePolicy == "" {
		deletePolicy = TeamDeleteKeep
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamService{
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		matchRepo:    matchRepo,
		ids:          ids,
		state:        state,
		deletePolicy: deletePolicy,
		logger:       logger,
	}
}

func (s *TeamService) ListTeams(ctx context.Context, group string) ([]team.Team, error) {
	ctx, span := startSpan(ctx, "TeamService.ListTeams")
	defer span.End()

	items, err := s.teamRepo.ListWithPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	group = team.NormalizeGroup(group)
	if group == "" {
		return items, nil
	}
	out := make([]team.Team, 0, len(items))
	for _, item := range items {
		if team.NormalizeGroup(item.Group) == group {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startSpan(ctx, "TeamService.GetTeam", attribute.String("team_id", teamID))
	defer span.End()

	return s.getTeam(ctx, teamID)
}

func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startSpan(ctx, "TeamService.CreateTeam")
	defer span.End()

	teamID, err := s.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	item := team.Team{
		ID:      teamID,
		Name:    strings.TrimSpace(input.Name),
		Group:   team.NormalizeGroup(input.Group),
		LogoURL: strings.TrimSpace(input.LogoURL),
		Players: []player.Player{},
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Create(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "create team failed", "team_name", item.Name, "error", err)
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.state.refreshAfterWrite(ctx, "team.created")
	return item, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, teamID string, input UpdateTeamInput) (team.Team, error) {
	ctx, span := startSpan(ctx, "TeamService.UpdateTeam", attribute.String("team_id", teamID))
	defer span.End()

	item, err := s.getTeam(ctx, teamID)
	if err != nil {
		return team.Team{}, err
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Group != nil {
		item.Group = team.NormalizeGroup(*input.Group)
	}
	if input.LogoURL != nil {
		item.LogoURL = strings.TrimSpace(*input.LogoURL)
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Update(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "update team failed", "team_id", teamID, "error", err)
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}

	s.state.refreshAfterWrite(ctx, "team.updated")
	return item, nil
}

// DeleteTeam removes the team and its roster in one batch, then applies the
// configured policy to matches that reference it.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID string) (DeleteTeamResult, error) {
	ctx, span := startSpan(ctx, "TeamService.DeleteTeam", attribute.String("team_id", teamID))
	defer span.End()

	if _, err := s.getTeam(ctx, teamID); err != nil {
		return DeleteTeamResult{}, err
	}

	if s.deletePolicy == TeamDeleteReject {
		referenced, err := s.referencingMatches(ctx, teamID)
		if err != nil {
			return DeleteTeamResult{}, err
		}
		if referenced > 0 {
			return DeleteTeamResult{}, fmt.Errorf("%w: team %s plays in %d matches", ErrConflict, teamID, referenced)
		}
	}

	var result DeleteTeamResult
	removed, err := s.teamRepo.DeleteWithPlayers(ctx, teamID)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete team failed", "team_id", teamID, "error", err)
		return DeleteTeamResult{}, fmt.Errorf("delete team: %w", err)
	}
	result.RemovedPlayers = removed

	if s.deletePolicy == TeamDeleteCascade {
		removedMatches, err := s.matchRepo.DeleteByTeam(ctx, teamID)
		if err != nil {
			s.logger.ErrorContext(ctx, "delete team matches failed", "team_id", teamID, "error", err)
			s.state.refreshAfterWrite(ctx, "team.deleted")
			return result, fmt.Errorf("delete team matches: %w", err)
		}
		result.RemovedMatches = removedMatches
	}

	s.state.refreshAfterWrite(ctx, "team.deleted")
	return result, nil
}

func (s *TeamService) ListPlayers(ctx context.Context, teamID string) ([]player.Player, error) {
	ctx, span := startSpan(ctx, "TeamService.ListPlayers", attribute.String("team_id", teamID))
	defer span.End()

	if _, err := s.getTeam(ctx, teamID); err != nil {
		return nil, err
	}
	items, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return items, nil
}

func (s *TeamService) AddPlayer(ctx context.Context, teamID string, input PlayerInput) (player.Player, error) {
	ctx, span := startSpan(ctx, "TeamService.AddPlayer", attribute.String("team_id", teamID))
	defer span.End()

	if _, err := s.getTeam(ctx, teamID); err != nil {
		return player.Player{}, err
	}

	playerID, err := s.ids.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	item := player.Player{
		ID:       playerID,
		TeamID:   teamID,
		Name:     strings.TrimSpace(input.Name),
		Number:   input.Number,
		Position: player.NormalizePosition(input.Position),
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.playerRepo.Create(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "create player failed", "team_id", teamID, "error", err)
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.state.refreshAfterWrite(ctx, "player.created")
	return item, nil
}

func (s *TeamService) UpdatePlayer(ctx context.Context, playerID string, input UpdatePlayerInput) (player.Player, error) {
	ctx, span := startSpan(ctx, "TeamService.UpdatePlayer", attribute.String("player_id", playerID))
	defer span.End()

	item, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Number != nil {
		item.Number = *input.Number
	}
	if input.Position != nil {
		item.Position = player.NormalizePosition(*input.Position)
	}
	if input.TeamID != nil && strings.TrimSpace(*input.TeamID) != item.TeamID {
		target := strings.TrimSpace(*input.TeamID)
		if _, err := s.getTeam(ctx, target); err != nil {
			return player.Player{}, err
		}
		item.TeamID = target
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.playerRepo.Update(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "update player failed", "player_id", playerID, "error", err)
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}

	s.state.refreshAfterWrite(ctx, "player.updated")
	return item, nil
}

func (s *TeamService) RemovePlayer(ctx context.Context, playerID string) error {
	ctx, span := startSpan(ctx, "TeamService.RemovePlayer", attribute.String("player_id", playerID))
	defer span.End()

	if _, err := s.getPlayer(ctx, playerID); err != nil {
		return err
	}
	if err := s.playerRepo.Delete(ctx, playerID); err != nil {
		s.logger.ErrorContext(ctx, "delete player failed", "player_id", playerID, "error", err)
		return fmt.Errorf("delete player: %w", err)
	}

	s.state.refreshAfterWrite(ctx, "player.deleted")
	return nil
}

func (s *TeamService) getTeam(ctx context.Context, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return item, nil
}

func (s *TeamService) getPlayer(ctx context.Context, playerID string) (player.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return item, nil
}

func (s *TeamService) referencingMatches(ctx context.Context, teamID string) (int, error) {
	items, err := s.matchRepo.ListWithEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("list matches: %w", err)
	}
	count := 0
	for _, m := range items {
		if m.Involves(teamID) {
			count++
		}
	}
	return count, nil
}
