// Package querybuilder renders the small set of postgres statements the
// repositories need, with $n placeholders.
package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	errNoTable   = errors.New("table is required")
	errNoColumns = errors.New("columns are required")
)

type SelectBuilder struct {
	table   string
	columns []string
	conds   []Condition
	order   []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.order = append(b.order, terms...)
	return b
}

// Limit caps the row count; zero or less means no limit.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select: %w", errNoColumns)
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select: %w", errNoTable)
	}

	var w sqlWriter
	w.raw("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	w.where(b.conds)
	if len(b.order) > 0 {
		w.raw(" ORDER BY ", strings.Join(b.order, ", "))
	}
	if b.limit > 0 {
		w.raw(" LIMIT ", strconv.Itoa(b.limit))
	}
	return w.result()
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = columns
	return b
}

// Values appends one row; call it repeatedly for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, values)
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert: %w", errNoTable)
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert: %w", errNoColumns)
	case len(b.rows) == 0:
		return "", nil, errors.New("insert: at least one row is required")
	}
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert: row %d has %d values for %d columns", i, len(row), len(b.columns))
		}
	}

	var w sqlWriter
	w.raw("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	w.list(", ", len(b.rows), func(i int) {
		row := b.rows[i]
		w.raw("(")
		w.list(", ", len(row), func(j int) { w.bind(row[j]) })
		w.raw(")")
	})
	w.suffix(b.suffix)
	return w.result()
}

type assignment struct {
	column string
	value  Condition
}

type UpdateBuilder struct {
	table  string
	sets   []assignment
	conds  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: condFunc(func(w *sqlWriter) { w.bind(value) })})
	return b
}

// SetExpr assigns a raw SQL expression such as NOW(); ? markers bind values.
func (b *UpdateBuilder) SetExpr(column, sql string, values ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: Expr(sql, values...)})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update: %w", errNoTable)
	}
	if len(b.sets) == 0 {
		return "", nil, errors.New("update: nothing to set")
	}

	var w sqlWriter
	w.raw("UPDATE ", b.table, " SET ")
	w.list(", ", len(b.sets), func(i int) {
		w.raw(b.sets[i].column, " = ")
		b.sets[i].value.render(&w)
	})
	w.where(b.conds)
	w.suffix(b.suffix)
	return w.result()
}
