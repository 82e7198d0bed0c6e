package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// env reads typed values from the process environment. The first failure is
// kept and every later read returns its fallback, so Load can read all keys
// straight through and check err once.
type env struct {
	err error
}

func (e *env) fail(format string, args ...any) {
	if e.err == nil {
		e.err = fmt.Errorf(format, args...)
	}
}

// check records msg as the error when ok is false.
func (e *env) check(ok bool, format string, args ...any) {
	if !ok {
		e.fail(format, args...)
	}
}

// str returns the trimmed value of key, or fallback when it is blank.
func (e *env) str(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// oneOf lowercases the value and requires it to be in allowed.
func (e *env) oneOf(key, fallback string, allowed ...string) string {
	v := strings.ToLower(e.str(key, fallback))
	if !slices.Contains(allowed, v) {
		e.fail("invalid %s %q: valid values are %s", key, v, strings.Join(allowed, ", "))
		return fallback
	}
	return v
}

func (e *env) boolean(key string, fallback bool) bool {
	raw := e.str(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		e.fail("parse %s: %w", key, err)
		return fallback
	}
	return v
}

// integer requires the value to be at least floor.
func (e *env) integer(key string, fallback, floor int) int {
	raw := e.str(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		e.fail("parse %s: %w", key, err)
		return fallback
	}
	if v < floor {
		e.fail("%s must be >= %d", key, floor)
		return fallback
	}
	return v
}

// duration rejects zero and negative values.
func (e *env) duration(key string, fallback time.Duration) time.Duration {
	raw := e.str(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		e.fail("parse %s: %w", key, err)
		return fallback
	}
	if v <= 0 {
		e.fail("%s must be > 0", key)
		return fallback
	}
	return v
}

// clock reads "HH:MM" as an offset from midnight.
func (e *env) clock(key string, fallback time.Duration) time.Duration {
	raw := e.str(key, "")
	if raw == "" {
		return fallback
	}
	t, err := time.Parse("15:04", raw)
	if err != nil {
		e.fail("parse %s: expected HH:MM, got %q", key, raw)
		return fallback
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
}

func (e *env) location(key, fallback string) *time.Location {
	loc, err := time.LoadLocation(e.str(key, fallback))
	if err != nil {
		e.fail("parse %s: %w", key, err)
		return time.UTC
	}
	return loc
}

func (e *env) list(key, fallback string) []string {
	var out []string
	for _, item := range strings.Split(e.str(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
