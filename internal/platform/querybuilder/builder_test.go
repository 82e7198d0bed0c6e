package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "name").
		From("teams").
		Where(Eq("group_label", "A"), IsNull("deleted_at")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, name FROM teams WHERE group_label = $1 AND deleted_at IS NULL ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "A" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_OrAndIn(t *testing.T) {
	query, args, err := Select("public_id").
		From("matches").
		Where(
			Or(Eq("home_team_public_id", "t1"), Eq("away_team_public_id", "t1")),
			InStrings("status", []string{"scheduled", "completed"}),
			IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id FROM matches WHERE (home_team_public_id = $1 OR away_team_public_id = $2) AND status IN ($3, $4) AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "t1" || args[3] != "completed" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("public_id").From("goals").Where(InStrings("match_public_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT public_id FROM goals WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query=%s args=%+v", query, args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("public_id", "name").
		Values("t1", "Lions").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (public_id, name) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "t1" || args[1] != "Lions" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		PublicID string `db:"public_id"`
		Round    int    `db:"round"`
		internal string
	}

	query, args, err := InsertModels("matches", []row{{PublicID: "m1", Round: 1}, {PublicID: "m2", Round: 2}}, "")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO matches (public_id, round) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "m2" || args[3] != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[row]("matches", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("venue", "Central Park").
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "m1"), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET venue = $1, updated_at = NOW() WHERE public_id = $2 AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Central Park" || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_ExprArgsAndSuffix(t *testing.T) {
	query, args, err := Update("goals").
		SetExpr("minute", "minute + ?", 1).
		Where(Expr("match_public_id = ?", "m1")).
		Suffix("RETURNING public_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE goals SET minute = minute + $1 WHERE match_public_id = $2 RETURNING public_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 1 || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestBuilders_RejectIncompleteStatements(t *testing.T) {
	t.Parallel()

	cases := map[string]func() (string, []any, error){
		"select without table":  Select("id").ToSQL,
		"select without column": Select().From("teams").ToSQL,
		"insert without rows":   InsertInto("teams").Columns("id").ToSQL,
		"insert short row":      InsertInto("teams").Columns("id", "name").Values("t1").ToSQL,
		"update without sets":   Update("teams").Where(Eq("id", 1)).ToSQL,
		"insert model non-struct": func() (string, []any, error) {
			return InsertModel("teams", 42, "")
		},
	}
	for name, build := range cases {
		if _, _, err := build(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
