package postgres

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	const base = "postgres://admin:pw@localhost:5432/tournament_admin?sslmode=disable"
	tests := []struct {
		name    string
		in      string
		disable bool
		check   func(got string) bool
	}{
		{name: "adds flag", in: base, disable: true, check: func(got string) bool {
			return strings.Contains(got, "disable_prepared_binary_result=yes") && strings.Contains(got, "sslmode=disable")
		}},
		{name: "respects explicit value", in: base + "&disable_prepared_binary_result=no", disable: true, check: func(got string) bool {
			return got == base+"&disable_prepared_binary_result=no"
		}},
		{name: "flag off", in: base, check: func(got string) bool { return got == base }},
	}
	for _, tt := range tests {
		if got := DSN(tt.in, tt.disable); !tt.check(got) {
			t.Fatalf("%s: unexpected dsn %q", tt.name, got)
		}
	}
}

func TestDatabaseName(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"postgres://u:p@db:5432/tournament_admin?sslmode=disable", "tournament_admin"},
		{"host=db user=postgres dbname='tournament_admin' sslmode=disable", "tournament_admin"},
		{"postgres://u:p@db:5432/", ""},
		{"host=db user=postgres", ""},
	}
	for _, tt := range tests {
		if got := DatabaseName(tt.in); got != tt.want {
			t.Fatalf("DatabaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTraceQuery(t *testing.T) {
	got := traceQuery(" SELECT   *\nFROM matches \t WHERE group_name = $1 ")
	if want := "SELECT * FROM matches WHERE group_name = $1"; got != want {
		t.Fatalf("traceQuery = %q, want %q", got, want)
	}

	long := traceQuery(strings.Repeat("x ", 400))
	if len(long) != maxTracedQueryLen+3 || !strings.HasSuffix(long, "...") {
		t.Fatalf("expected truncation, got len %d", len(long))
	}
}
