package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
)

type fakeMigrator struct {
	calls   []string
	steps   int
	target  uint
	forced  int
	version uint
	dirty   bool
	err     error
	closed  bool
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.err
}

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	f.steps = n
	return f.err
}

func (f *fakeMigrator) Migrate(v uint) error {
	f.calls = append(f.calls, "migrate")
	f.target = v
	return f.err
}

func (f *fakeMigrator) Force(v int) error {
	f.calls = append(f.calls, "force")
	f.forced = v
	return f.err
}

func (f *fakeMigrator) Close() (error, error) {
	f.closed = true
	return nil, nil
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, f.err
}

func runWith(t *testing.T, fake *fakeMigrator, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/tournament_admin?sslmode=disable")
	t.Setenv("MIGRATIONS_DIR", t.TempDir())

	var stdout, stderr bytes.Buffer
	var gotSource string
	code := run(args, &stdout, &stderr, logging.NewNop(), func(source, _ string) (migrator, error) {
		gotSource = source
		return fake, nil
	})
	if code != 2 && !strings.HasPrefix(gotSource, "file://") {
		t.Fatalf("unexpected source %q", gotSource)
	}
	return code, stdout.String(), stderr.String()
}

func TestRun_DispatchesCommands(t *testing.T) {
	fake := &fakeMigrator{}
	if code, _, _ := runWith(t, fake, "down", "3"); code != 0 || fake.steps != -3 || !fake.closed {
		t.Fatalf("down: code=%d steps=%d closed=%t", code, fake.steps, fake.closed)
	}

	fake = &fakeMigrator{}
	if code, _, _ := runWith(t, fake, "MIGRATE", "1780301400"); code != 0 || fake.target != 1780301400 {
		t.Fatalf("migrate alias: code=%d target=%d", code, fake.target)
	}

	fake = &fakeMigrator{}
	if code, _, _ := runWith(t, fake, "force", "1780300800"); code != 0 || fake.forced != 1780300800 {
		t.Fatalf("force: code=%d forced=%d", code, fake.forced)
	}

	fake = &fakeMigrator{version: 1780301400, dirty: true}
	code, out, _ := runWith(t, fake, "version")
	if code != 0 || out != "version: 1780301400\ndirty: true\n" {
		t.Fatalf("version: code=%d out=%q", code, out)
	}
}

func TestRun_NoChangeIsSuccess(t *testing.T) {
	if code, _, _ := runWith(t, &fakeMigrator{err: migrate.ErrNoChange}, "up"); code != 0 {
		t.Fatalf("expected exit 0 on no change, got %d", code)
	}
	if code, _, _ := runWith(t, &fakeMigrator{err: errors.New("dirty database")}, "up"); code != 1 {
		t.Fatalf("expected exit 1 on failure, got %d", code)
	}
	code, out, _ := runWith(t, &fakeMigrator{err: migrate.ErrNilVersion}, "version")
	if code != 0 || !strings.HasPrefix(out, "version: none") {
		t.Fatalf("expected empty version report, code=%d out=%q", code, out)
	}
}

func TestRun_RejectsBadArguments(t *testing.T) {
	if code, _, stderr := runWith(t, &fakeMigrator{}); code != 2 || !strings.Contains(stderr, "usage:") {
		t.Fatalf("expected usage, code=%d stderr=%q", code, stderr)
	}
	if code, _, _ := runWith(t, &fakeMigrator{}, "sideways"); code != 2 {
		t.Fatalf("expected exit 2 for unknown command, got %d", code)
	}
	for _, args := range [][]string{{"down", "0"}, {"down", "two"}, {"goto"}, {"force", "-1"}} {
		fake := &fakeMigrator{}
		if code, _, _ := runWith(t, fake, args...); code != 1 || len(fake.calls) != 0 {
			t.Fatalf("%v: expected failure before touching the database, code=%d calls=%v", args, code, fake.calls)
		}
	}
}

func TestFindMigrationsDir(t *testing.T) {
	dir := t.TempDir()
	got, err := findMigrationsDir(" " + dir + " ")
	if err != nil || got != dir {
		t.Fatalf("expected override %q, got %q err=%v", dir, got, err)
	}
}
