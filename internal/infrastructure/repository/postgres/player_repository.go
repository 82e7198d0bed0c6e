package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	qb "github.com/riskibarqy/tournament-admin/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	return listPlayersByTeam(ctx, r.db, teamID)
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := getContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	return withTx(ctx, r.db, "create player", func(tx *sqlx.Tx) error {
		if err := requireTeam(ctx, tx, item.TeamID); err != nil {
			return fmt.Errorf("create player for team %s: %w", item.TeamID, err)
		}

		insertModel := playerInsertModel{
			PublicID: item.ID,
			TeamID:   item.TeamID,
			Name:     item.Name,
			Number:   item.Number,
			Position: string(item.Position),
		}
		query, args, err := qb.InsertModel("players", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert player query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
		return nil
	})
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	return withTx(ctx, r.db, "update player", func(tx *sqlx.Tx) error {
		if err := requireTeam(ctx, tx, item.TeamID); err != nil {
			return fmt.Errorf("move player to team %s: %w", item.TeamID, err)
		}

		query, args, err := qb.Update("players").
			Set("team_public_id", item.TeamID).
			Set("name", item.Name).
			Set("shirt_number", item.Number).
			Set("position", string(item.Position)).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("public_id", item.ID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update player query: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update player: %w", err)
		}
		affected, err := rowsAffected(result)
		if err != nil {
			return fmt.Errorf("update player: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("update player %s: %w", item.ID, ErrRecordNotFound)
		}
		return nil
	})
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	query, args, err := qb.Update("players").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	affected, err := rowsAffected(result)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete player %s: %w", playerID, ErrRecordNotFound)
	}
	return nil
}

func listPlayersByTeam(ctx context.Context, db sqlx.QueryerContext, teamID string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("shirt_number", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by team query: %w", err)
	}

	var rows []playerTableModel
	if err := selectContext(ctx, db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by team: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func requireTeam(ctx context.Context, tx *sqlx.Tx, teamID string) error {
	query, args, err := qb.Select("COUNT(1)").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build team exists query: %w", err)
	}

	var count int
	if err := tx.GetContext(ctx, &count, query, args...); err != nil {
		return fmt.Errorf("team exists: %w", err)
	}
	if count == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:       row.PublicID,
		TeamID:   row.TeamID,
		Name:     row.Name,
		Number:   row.Number,
		Position: player.Position(row.Position),
	}
}
