// Command migration applies the SQL files under db/migrations with
// golang-migrate.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/tournament-admin/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tournament-admin/internal/platform/logging"
)

// migrator is the subset of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Steps(n int) error
	Migrate(version uint) error
	Force(version int) error
	Version() (uint, bool, error)
	Close() (error, error)
}

type command struct {
	name  string
	usage string
	run   func(m migrator, args []string, out io.Writer) error
}

var commands = []command{
	{"up", "apply every pending migration", func(m migrator, _ []string, _ io.Writer) error { return m.Up() }},
	{"down", "[n] roll back n migrations, default 1", down},
	{"goto", "<version> migrate up or down to version", gotoVersion},
	{"force", "<version> mark version as applied without running it", force},
	{"version", "print the current version and dirty flag", printVersion},
}

var migrationDirs = []string{"./db/migrations", "/app/db/migrations"}

func main() {
	_ = godotenv.Load()

	logger := logging.NewConsole(logging.LevelInfo).Named("migration")
	code := run(os.Args[1:], os.Stdout, os.Stderr, logger, openMigrator)
	_ = logger.Sync()
	os.Exit(code)
}

func openMigrator(sourceURL, dbURL string) (migrator, error) {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func run(args []string, stdout, stderr io.Writer, logger *logging.Logger, open func(string, string) (migrator, error)) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		logger.Error("DB_URL is required")
		return 1
	}
	disableBinary, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT")))

	dir, err := findMigrationsDir(os.Getenv("MIGRATIONS_DIR"))
	if err != nil {
		logger.Error("locate migrations failed", "error", err)
		return 1
	}
	source := "file://" + filepath.ToSlash(dir)

	m, err := open(source, postgres.DSN(dbURL, disableBinary))
	if err != nil {
		logger.Error("create migrator failed", "error", err)
		return 1
	}
	err = cmd.run(m, args[1:], stdout)
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		logger.Warn("close migrator failed", "source_error", srcErr, "db_error", dbErr)
	}

	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("nothing to migrate", "command", cmd.name)
	case err != nil:
		logger.Error("migration failed", "command", cmd.name, "error", err)
		return 1
	default:
		logger.Info("migration done", "command", cmd.name, "source", source)
	}
	return 0
}

func lookup(name string) (command, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "migrate" {
		name = "goto"
	}
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func down(m migrator, args []string, _ io.Writer) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || v < 1 {
			return fmt.Errorf("down steps must be a positive integer, got %q", args[0])
		}
		n = v
	}
	return m.Steps(-n)
}

func gotoVersion(m migrator, args []string, _ io.Writer) error {
	v, err := versionArg(args)
	if err != nil {
		return err
	}
	return m.Migrate(uint(v))
}

func force(m migrator, args []string, _ io.Writer) error {
	v, err := versionArg(args)
	if err != nil {
		return err
	}
	return m.Force(v)
}

func printVersion(m migrator, _ []string, out io.Writer) error {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		_, err = fmt.Fprintln(out, "version: none\ndirty: false")
		return err
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	}
	_, err = fmt.Fprintf(out, "version: %d\ndirty: %t\n", v, dirty)
	return err
}

// versionArg parses a non-negative version that fits in an int.
func versionArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("a version argument is required")
	}
	v, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", args[0], err)
	}
	return int(v), nil
}

// findMigrationsDir prefers override, then the repo and container layouts.
func findMigrationsDir(override string) (string, error) {
	candidates := migrationDirs
	if override = strings.TrimSpace(override); override != "" {
		candidates = append([]string{override}, candidates...)
	}
	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("no migrations directory among %v", candidates)
}

func usage(w io.Writer) {
	bin := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "usage: %s <command> [args]\n\ncommands:\n", bin)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
}
