package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrRecordNotFound is returned by writes that target a missing or soft deleted row.
var ErrRecordNotFound = errors.New("record not found")

// insertChunkSize keeps multi-row inserts well below the 65535 bind parameter limit.
const insertChunkSize = 500

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "bind message supplies") &&
		strings.Contains(text, "prepared statement") &&
		strings.Contains(text, "requires")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	if strings.Contains(text, "unnamed prepared statement does not exist") {
		return true
	}
	return strings.Contains(text, "prepared statement") && strings.Contains(text, "26000")
}

// isStalePreparedStatement matches the errors a transaction-mode pooler gives
// when the unnamed statement was prepared on another backend.
func isStalePreparedStatement(err error) bool {
	return isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err)
}

// selectContext is sqlx.SelectContext with the prepared statement fallbacks.
func selectContext(ctx context.Context, db sqlx.QueryerContext, dest any, query string, args ...any) error {
	return withStatementFallback(query, args, func(q string, a []any) error {
		return sqlx.SelectContext(ctx, db, dest, q, a...)
	})
}

// getContext is sqlx.GetContext with the prepared statement fallbacks.
func getContext(ctx context.Context, db sqlx.QueryerContext, dest any, query string, args ...any) error {
	return withStatementFallback(query, args, func(q string, a []any) error {
		return sqlx.GetContext(ctx, db, dest, q, a...)
	})
}

// withStatementFallback runs the query as built. On a stale prepared statement
// it retries once with every string argument packed into a single text[]
// parameter, and if the statement is still missing, once more with the
// arguments inlined as quoted literals.
func withStatementFallback(query string, args []any, run func(query string, args []any) error) error {
	err := run(query, args)
	if !isStalePreparedStatement(err) {
		return err
	}

	if packed, packedArgs, ok := packStringArgs(query, args); ok {
		err = run(packed, packedArgs)
		if !isUnnamedPreparedStatementMissing(err) {
			return err
		}
	}
	if literal, ok := inlineStringArgs(query, args); ok {
		return run(literal, nil)
	}
	return err
}

var placeholderPattern = regexp.MustCompile(`\$([0-9]+)`)

func stringArgs(args []any) ([]string, bool) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		v, ok := a.(string)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, len(out) > 0
}

// packStringArgs rewrites $n as ($1::text[])[n] so the statement carries one parameter.
func packStringArgs(query string, args []any) (string, []any, bool) {
	values, ok := stringArgs(args)
	if !ok {
		return "", nil, false
	}
	packed := placeholderPattern.ReplaceAllString(query, `($$1::text[])[${1}]`)
	return packed, []any{pq.Array(values)}, true
}

// inlineStringArgs replaces $n with the quoted literal of the nth argument.
func inlineStringArgs(query string, args []any) (string, bool) {
	values, ok := stringArgs(args)
	if !ok {
		return "", false
	}
	valid := true
	literal := placeholderPattern.ReplaceAllStringFunc(query, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(values) {
			valid = false
			return m
		}
		return pq.QuoteLiteral(values[n-1])
	})
	return literal, valid
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func intFromNull(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func rowsAffected(result sql.Result) (int, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// withTx runs fn inside one transaction and commits only when fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx %s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s tx: %w", op, err)
	}
	return nil
}

func chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	out := make([][]T, 0, (len(items)+size-1)/max(size, 1))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
