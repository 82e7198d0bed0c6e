package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
	matchmock "github.com/riskibarqy/tournament-admin/internal/mocks/domain/match"
	playermock "github.com/riskibarqy/tournament-admin/internal/mocks/domain/player"
	teammock "github.com/riskibarqy/tournament-admin/internal/mocks/domain/team"
	"github.com/riskibarqy/tournament-admin/internal/platform/id"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestTeamService_CreateTeam_EmptyNameNeverPersistsUsingMockery(t *testing.T) {
	t.Parallel()

	teamRepo := teammock.NewRepository(t)
	service := NewTeamService(teamRepo, playermock.NewRepository(t), matchmock.NewRepository(t), id.NewSequenceGenerator("t"), nil, TeamDeleteKeep, logging.NewNop())

	_, err := service.CreateTeam(context.Background(), CreateTeamInput{Name: "   ", Group: "A"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	teamRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTeamService_CreateTeam_PersistenceFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	service := NewTeamService(teamRepo, playermock.NewRepository(t), matchmock.NewRepository(t), id.NewSequenceGenerator("t"), nil, TeamDeleteKeep, logging.NewNop())

	teamRepo.
		On("Create", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), mock.MatchedBy(func(v team.Team) bool {
			return v.ID == "t-1" && v.Name == "Lions" && v.Group == "B"
		})).
		Return(errors.New("connection reset")).
		Once()

	_, err := service.CreateTeam(ctx, CreateTeamInput{Name: " Lions ", Group: "b"})
	if err == nil || errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestTeamService_AddPlayer_TeamNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	service := NewTeamService(teamRepo, playerRepo, matchmock.NewRepository(t), id.NewSequenceGenerator("p"), nil, TeamDeleteKeep, logging.NewNop())

	teamRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "ghost").
		Return(team.Team{}, false, nil).
		Once()

	_, err := service.AddPlayer(ctx, "ghost", PlayerInput{Name: "Someone", Position: "FWD"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamService_CrudRefreshesState(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, TeamDeleteKeep)
	ctx := context.Background()

	created, err := env.teams.CreateTeam(ctx, CreateTeamInput{Name: "Lions", Group: "a"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if created.Group != "A" {
		t.Fatalf("expected normalized group, got %q", created.Group)
	}

	added, err := env.teams.AddPlayer(ctx, created.ID, PlayerInput{Name: "Keeper", Number: 1, Position: "gk"})
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	if added.Position != player.PositionGoalkeeper {
		t.Fatalf("unexpected position %s", added.Position)
	}

	if _, err := env.teams.AddPlayer(ctx, created.ID, PlayerInput{Name: "", Position: "GK"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty player name, got %v", err)
	}

	newName := "Lions FC"
	if _, err := env.teams.UpdateTeam(ctx, created.ID, UpdateTeamInput{Name: &newName}); err != nil {
		t.Fatalf("update team: %v", err)
	}

	st, err := env.state.Current(ctx)
	if err != nil {
		t.Fatalf("current state: %v", err)
	}
	if len(st.Snapshot.Teams) != 1 || st.Snapshot.Teams[0].Name != "Lions FC" || len(st.Snapshot.Teams[0].Players) != 1 {
		t.Fatalf("state not refreshed after writes: %+v", st.Snapshot.Teams)
	}

	want := []string{"team.created", "player.created", "team.updated"}
	got := env.publisher.reasons()
	if len(got) != len(want) {
		t.Fatalf("unexpected events: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected events: want=%v got=%v", want, got)
		}
	}
}

func TestTeamService_UpdatePlayer_Transfer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, TeamDeleteKeep, groupA()...)
	ctx := context.Background()

	p, err := env.teams.AddPlayer(ctx, "T1", PlayerInput{Name: "Mover", Number: 7, Position: "MID"})
	if err != nil {
		t.Fatalf("add player: %v", err)
	}

	target := "T2"
	moved, err := env.teams.UpdatePlayer(ctx, p.ID, UpdatePlayerInput{TeamID: &target})
	if err != nil {
		t.Fatalf("update player: %v", err)
	}
	if moved.TeamID != "T2" {
		t.Fatalf("expected transfer to T2, got %s", moved.TeamID)
	}

	missing := "T9"
	if _, err := env.teams.UpdatePlayer(ctx, p.ID, UpdatePlayerInput{TeamID: &missing}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown team, got %v", err)
	}

	badNumber := 120
	if _, err := env.teams.UpdatePlayer(ctx, p.ID, UpdatePlayerInput{Number: &badNumber}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for number, got %v", err)
	}

	if err := env.teams.RemovePlayer(ctx, p.ID); err != nil {
		t.Fatalf("remove player: %v", err)
	}
	if err := env.teams.RemovePlayer(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestTeamService_DeleteTeamPolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy      TeamDeletePolicy
		wantErr     error
		wantMatches int
	}{
		{policy: TeamDeleteKeep, wantMatches: 6},
		{policy: TeamDeleteReject, wantErr: ErrConflict, wantMatches: 6},
		{policy: TeamDeleteCascade, wantMatches: 3},
	}

	for _, tc := range tests {
		t.Run(string(tc.policy), func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, tc.policy, groupA()...)
			ctx := context.Background()
			if _, err := env.teams.AddPlayer(ctx, "T1", PlayerInput{Name: "Keeper", Position: "GK"}); err != nil {
				t.Fatalf("add player: %v", err)
			}
			if _, err := env.schedule.Generate(ctx, GenerateScheduleInput{StartDate: "2026-07-01"}); err != nil {
				t.Fatalf("generate schedule: %v", err)
			}

			result, err := env.teams.DeleteTeam(ctx, "T1")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("delete team: %v", err)
			} else if result.RemovedPlayers != 1 {
				t.Fatalf("expected roster removal, got %+v", result)
			}

			st, err := env.state.Current(ctx)
			if err != nil {
				t.Fatalf("current state: %v", err)
			}
			if len(st.Snapshot.Matches) != tc.wantMatches {
				t.Fatalf("expected %d matches, got %d", tc.wantMatches, len(st.Snapshot.Matches))
			}
		})
	}
}

func TestTeamService_KeepPolicyLeavesUnresolvedReferences(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, TeamDeleteKeep, groupA()...)
	ctx := context.Background()
	if _, err := env.schedule.Generate(ctx, GenerateScheduleInput{StartDate: "2026-07-01"}); err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	if _, err := env.teams.DeleteTeam(ctx, "T4"); err != nil {
		t.Fatalf("delete team: %v", err)
	}

	dir, err := env.stats.Directory(ctx)
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if _, ok := dir.Team("T4"); ok {
		t.Fatalf("deleted team must not resolve")
	}

	env.clock.Advance(time.Hour)
	if _, err := env.stats.Dashboard(ctx); err != nil {
		t.Fatalf("dashboard with dangling references: %v", err)
	}
}

func TestParseTeamDeletePolicy(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]TeamDeletePolicy{"": TeamDeleteKeep, " Cascade ": TeamDeleteCascade, "reject": TeamDeleteReject} {
		got, err := ParseTeamDeletePolicy(input)
		if err != nil || got != want {
			t.Fatalf("parse %q: want=%s got=%s err=%v", input, want, got, err)
		}
	}
	if _, err := ParseTeamDeletePolicy("archive"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
