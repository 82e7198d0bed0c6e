package postgres

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	maxOpenConns = 20
	maxIdleConns = 10

	// statements longer than this are cut in span attributes
	maxTracedQueryLen = 512
)

// Open connects with OpenTelemetry instrumentation and verifies the
// connection with a ping.
func Open(dsn string, disableBinary bool) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", DSN(dsn, disableBinary),
		otelsql.WithDBName(DatabaseName(dsn)),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// DSN sets disable_prepared_binary_result=yes on URL-style DSNs, as
// needed behind transaction-mode poolers, unless the caller already chose a
// value. Key/value DSNs are returned untouched.
func DSN(raw string, disableBinary bool) string {
	if !disableBinary {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("disable_prepared_binary_result") {
		return raw
	}
	q.Set("disable_prepared_binary_result", "yes")
	u.RawQuery = q.Encode()
	return u.String()
}

// DatabaseName accepts both postgres:// URLs and key=value DSNs.
func DatabaseName(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		if name := strings.Trim(u.Path, "/ "); name != "" {
			return name
		}
	}
	for _, field := range strings.Fields(dsn) {
		if key, value, ok := strings.Cut(field, "="); ok && key == "dbname" {
			return strings.Trim(value, `"' `)
		}
	}
	return ""
}

// traceQuery collapses whitespace so statements read on one line in traces.
func traceQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if len(query) > maxTracedQueryLen {
		return query[:maxTracedQueryLen] + "..."
	}
	return query
}
