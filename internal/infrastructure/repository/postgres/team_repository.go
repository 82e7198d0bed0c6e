package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
	qb "github.com/riskibarqy/tournament-admin/internal/platform/querybuilder"
	"github.com/sourcegraph/conc/pool"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListWithPlayers(ctx context.Context) ([]team.Team, error) {
	var (
		teamRows   []teamTableModel
		playerRows []playerTableModel
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		query, args, err := qb.Select("*").From("teams").
			Where(qb.IsNull("deleted_at")).
			OrderBy("id").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build select teams query: %w", err)
		}
		if err := selectContext(ctx, r.db, &teamRows, query, args...); err != nil {
			return fmt.Errorf("select teams: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		query, args, err := qb.Select("*").From("players").
			Where(qb.IsNull("deleted_at")).
			OrderBy("team_public_id", "shirt_number", "public_id").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build select players query: %w", err)
		}
		if err := selectContext(ctx, r.db, &playerRows, query, args...); err != nil {
			return fmt.Errorf("select players: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	rosters := make(map[string][]player.Player, len(teamRows))
	for _, row := range playerRows {
		rosters[row.TeamID] = append(rosters[row.TeamID], playerFromRow(row))
	}

	out := make([]team.Team, 0, len(teamRows))
	for _, row := range teamRows {
		out = append(out, teamFromRow(row, rosters[row.PublicID]))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := getContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	roster, err := listPlayersByTeam(ctx, r.db, teamID)
	if err != nil {
		return team.Team{}, false, err
	}
	return teamFromRow(row, roster), true, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	insertModel := teamInsertModel{
		PublicID: item.ID,
		Name:     item.Name,
		Group:    item.Group,
		LogoURL:  item.LogoURL,
	}
	query, args, err := qb.InsertModel("teams", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert team %s: duplicate public id: %w", item.ID, err)
		}
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("group_name", item.Group).
		Set("logo_url", item.LogoURL).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	affected, err := rowsAffected(result)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update team %s: %w", item.ID, ErrRecordNotFound)
	}
	return nil
}

// DeleteWithPlayers soft deletes the roster and the team in one transaction.
func (r *TeamRepository) DeleteWithPlayers(ctx context.Context, teamID string) (int, error) {
	removedPlayers := 0
	err := withTx(ctx, r.db, "delete team", func(tx *sqlx.Tx) error {
		playersQuery, playersArgs, err := qb.Update("players").
			SetExpr("deleted_at", "NOW()").
			Where(
				qb.Eq("team_public_id", teamID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete roster query: %w", err)
		}
		result, err := tx.ExecContext(ctx, playersQuery, playersArgs...)
		if err != nil {
			return fmt.Errorf("delete roster: %w", err)
		}
		if removedPlayers, err = rowsAffected(result); err != nil {
			return fmt.Errorf("delete roster: %w", err)
		}

		teamQuery, teamArgs, err := qb.Update("teams").
			SetExpr("deleted_at", "NOW()").
			Where(
				qb.Eq("public_id", teamID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete team query: %w", err)
		}
		result, err = tx.ExecContext(ctx, teamQuery, teamArgs...)
		if err != nil {
			return fmt.Errorf("delete team: %w", err)
		}
		affected, err := rowsAffected(result)
		if err != nil {
			return fmt.Errorf("delete team: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("delete team %s: %w", teamID, ErrRecordNotFound)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removedPlayers, nil
}

func teamFromRow(row teamTableModel, roster []player.Player) team.Team {
	if roster == nil {
		roster = []player.Player{}
	}
	return team.Team{
		ID:      row.PublicID,
		Name:    row.Name,
		Group:   row.Group,
		LogoURL: row.LogoURL,
		Players: roster,
	}
}
