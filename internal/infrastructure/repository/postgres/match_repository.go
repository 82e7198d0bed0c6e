package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	qb "github.com/riskibarqy/tournament-admin/internal/platform/querybuilder"
	"github.com/sourcegraph/conc/pool"
)

const (
	tableMatches     = "matches"
	tableGoals       = "goals"
	tableYellowCards = "yellow_cards"
	tableRedCards    = "red_cards"
)

var eventTables = []string{tableGoals, tableYellowCards, tableRedCards}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListWithEvents(ctx context.Context) ([]match.Match, error) {
	rows, events, err := r.load(ctx, "")
	if err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, events.attach(matchFromRow(row)))
	}
	match.SortFixtures(out)
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	if matchID == "" {
		return match.Match{}, false, nil
	}

	rows, events, err := r.load(ctx, matchID)
	if err != nil {
		return match.Match{}, false, err
	}
	if len(rows) == 0 {
		return match.Match{}, false, nil
	}
	return events.attach(matchFromRow(rows[0])), true, nil
}

// load reads matches, goals and both card tables concurrently, narrowed to one
// match when matchID is set.
func (r *MatchRepository) load(ctx context.Context, matchID string) ([]matchTableModel, matchEvents, error) {
	var (
		rows    []matchTableModel
		goals   []goalTableModel
		yellows []cardTableModel
		reds    []cardTableModel
	)

	matchFilters := []qb.Condition{qb.IsNull("deleted_at")}
	eventFilters := []qb.Condition{qb.IsNull("deleted_at")}
	if matchID != "" {
		matchFilters = append(matchFilters, qb.Eq("public_id", matchID))
		eventFilters = append(eventFilters, qb.Eq("match_public_id", matchID))
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		query, args, err := qb.Select("*").From(tableMatches).
			Where(matchFilters...).
			OrderBy("round", "kickoff_at", "group_name", "id").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build select matches query: %w", err)
		}
		if err := selectContext(ctx, r.db, &rows, query, args...); err != nil {
			return fmt.Errorf("select matches: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		return selectEvents(ctx, r.db, tableGoals, &goals, eventFilters)
	})
	p.Go(func(ctx context.Context) error {
		return selectEvents(ctx, r.db, tableYellowCards, &yellows, eventFilters)
	})
	p.Go(func(ctx context.Context) error {
		return selectEvents(ctx, r.db, tableRedCards, &reds, eventFilters)
	})
	if err := p.Wait(); err != nil {
		return nil, matchEvents{}, err
	}

	return rows, newMatchEvents(goals, yellows, reds), nil
}

func selectEvents[T goalTableModel | cardTableModel](ctx context.Context, db *sqlx.DB, table string, dest *[]T, filters []qb.Condition) error {
	query, args, err := qb.Select("*").From(table).
		Where(filters...).
		OrderBy("minute", "id").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build select %s query: %w", table, err)
	}
	if err := selectContext(ctx, db, dest, query, args...); err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

// CreateBatch inserts the whole batch in one transaction, chunked into multi-row inserts.
func (r *MatchRepository) CreateBatch(ctx context.Context, items []match.Match) error {
	if len(items) == 0 {
		return nil
	}
	return withTx(ctx, r.db, "create matches", func(tx *sqlx.Tx) error {
		return insertMatches(ctx, tx, items)
	})
}

// ReplaceAll soft deletes every match and its events and inserts items in the
// same transaction; on failure the previous schedule is left untouched.
func (r *MatchRepository) ReplaceAll(ctx context.Context, items []match.Match) (int, error) {
	removed := 0
	err := withTx(ctx, r.db, "replace matches", func(tx *sqlx.Tx) error {
		n, err := softDeleteMatches(ctx, tx, "replace matches")
		if err != nil {
			return err
		}
		removed = n
		return insertMatches(ctx, tx, items)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func insertMatches(ctx context.Context, tx *sqlx.Tx, items []match.Match) error {
	models := make([]matchInsertModel, 0, len(items))
	for _, item := range items {
		models = append(models, matchInsertModel{
			PublicID:    item.ID,
			HomeTeamID:  item.HomeTeamID,
			AwayTeamID:  item.AwayTeamID,
			KickoffAt:   item.KickoffAt,
			Venue:       item.Venue,
			Group:       item.Group,
			Round:       item.Round,
			HomeScore:   nullableInt(item.HomeScore),
			AwayScore:   nullableInt(item.AwayScore),
			Status:      string(item.Status),
			CompletedAt: item.CompletedAt,
		})
	}

	for _, chunk := range chunks(models, insertChunkSize) {
		query, args, err := qb.InsertModels(tableMatches, chunk, "")
		if err != nil {
			return fmt.Errorf("build insert matches query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert matches: %w", err)
		}
	}
	return nil
}

func (r *MatchRepository) Update(ctx context.Context, item match.Match) error {
	query, args, err := qb.Update(tableMatches).
		Set("kickoff_at", item.KickoffAt).
		Set("venue", item.Venue).
		Set("group_name", item.Group).
		Set("round", item.Round).
		Set("home_score", nullableInt(item.HomeScore)).
		Set("away_score", nullableInt(item.AwayScore)).
		Set("status", string(item.Status)).
		Set("completed_at", item.CompletedAt).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	affected, err := rowsAffected(result)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update match %s: %w", item.ID, ErrRecordNotFound)
	}
	return nil
}

func (r *MatchRepository) AddGoal(ctx context.Context, item match.Goal) error {
	insertModel := goalInsertModel{
		PublicID:  item.ID,
		MatchID:   item.MatchID,
		PlayerID:  item.PlayerID,
		TeamID:    item.TeamID,
		Minute:    item.Minute,
		IsOwnGoal: item.IsOwnGoal,
	}
	return r.insertEvent(ctx, tableGoals, item.MatchID, insertModel)
}

func (r *MatchRepository) AddCard(ctx context.Context, item match.Card) error {
	table := tableYellowCards
	if item.Type == match.CardRed {
		table = tableRedCards
	}
	insertModel := cardInsertModel{
		PublicID: item.ID,
		MatchID:  item.MatchID,
		PlayerID: item.PlayerID,
		TeamID:   item.TeamID,
		Minute:   item.Minute,
	}
	return r.insertEvent(ctx, table, item.MatchID, insertModel)
}

func (r *MatchRepository) insertEvent(ctx context.Context, table, matchID string, model any) error {
	return withTx(ctx, r.db, "insert "+table, func(tx *sqlx.Tx) error {
		query, args, err := qb.Select("COUNT(1)").From(tableMatches).
			Where(
				qb.Eq("public_id", matchID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build match exists query: %w", err)
		}
		var count int
		if err := tx.GetContext(ctx, &count, query, args...); err != nil {
			return fmt.Errorf("match exists: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("insert %s for match %s: %w", table, matchID, ErrRecordNotFound)
		}

		query, args, err = qb.InsertModel(table, model, "")
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
		return nil
	})
}

func (r *MatchRepository) DeleteAll(ctx context.Context) (int, error) {
	return r.deleteMatches(ctx, "delete matches")
}

func (r *MatchRepository) DeleteByTeam(ctx context.Context, teamID string) (int, error) {
	return r.deleteMatches(ctx, "delete team matches", qb.Or(
		qb.Eq("home_team_public_id", teamID),
		qb.Eq("away_team_public_id", teamID),
	))
}

// deleteMatches soft deletes the matching matches and every goal and card
// attached to them in one transaction.
func (r *MatchRepository) deleteMatches(ctx context.Context, op string, filters ...qb.Condition) (int, error) {
	removed := 0
	err := withTx(ctx, r.db, op, func(tx *sqlx.Tx) error {
		n, err := softDeleteMatches(ctx, tx, op, filters...)
		removed = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func softDeleteMatches(ctx context.Context, tx *sqlx.Tx, op string, filters ...qb.Condition) (int, error) {
	where := append([]qb.Condition{qb.IsNull("deleted_at")}, filters...)
	query, args, err := qb.Update(tableMatches).
		SetExpr("deleted_at", "NOW()").
		Where(where...).
		Suffix("RETURNING public_id").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build %s query: %w", op, err)
	}

	var matchIDs []string
	if err := tx.SelectContext(ctx, &matchIDs, query, args...); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(matchIDs) == 0 {
		return 0, nil
	}

	for _, table := range eventTables {
		eventQuery, eventArgs, err := qb.Update(table).
			SetExpr("deleted_at", "NOW()").
			Where(
				qb.InStrings("match_public_id", matchIDs),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, eventQuery, eventArgs...); err != nil {
			return 0, fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return len(matchIDs), nil
}

type matchEvents struct {
	goals map[string][]match.Goal
	cards map[string][]match.Card
}

func newMatchEvents(goals []goalTableModel, yellows, reds []cardTableModel) matchEvents {
	out := matchEvents{
		goals: make(map[string][]match.Goal),
		cards: make(map[string][]match.Card),
	}
	for _, row := range goals {
		out.goals[row.MatchID] = append(out.goals[row.MatchID], match.Goal{
			ID:        row.PublicID,
			MatchID:   row.MatchID,
			PlayerID:  row.PlayerID,
			TeamID:    row.TeamID,
			Minute:    row.Minute,
			IsOwnGoal: row.IsOwnGoal,
		})
	}
	for _, row := range yellows {
		out.cards[row.MatchID] = append(out.cards[row.MatchID], cardFromRow(row, match.CardYellow))
	}
	for _, row := range reds {
		out.cards[row.MatchID] = append(out.cards[row.MatchID], cardFromRow(row, match.CardRed))
	}
	return out
}

func (e matchEvents) attach(item match.Match) match.Match {
	item.Goals = append([]match.Goal{}, e.goals[item.ID]...)
	item.Cards = append([]match.Card{}, e.cards[item.ID]...)
	match.SortEvents(&item)
	return item
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:          row.PublicID,
		HomeTeamID:  row.HomeTeamID,
		AwayTeamID:  row.AwayTeamID,
		KickoffAt:   row.KickoffAt,
		Venue:       row.Venue,
		Group:       row.Group,
		Round:       row.Round,
		HomeScore:   intFromNull(row.HomeScore),
		AwayScore:   intFromNull(row.AwayScore),
		Status:      match.Status(row.Status),
		CompletedAt: row.CompletedAt,
	}
}

func cardFromRow(row cardTableModel, cardType match.CardType) match.Card {
	return match.Card{
		ID:       row.PublicID,
		MatchID:  row.MatchID,
		PlayerID: row.PlayerID,
		TeamID:   row.TeamID,
		Minute:   row.Minute,
		Type:     cardType,
	}
}
