package querybuilder

// Condition is one predicate of a WHERE clause. Predicates passed to Where
// are joined with AND.
type Condition interface {
	render(w *sqlWriter)
}

type condFunc func(w *sqlWriter)

func (f condFunc) render(w *sqlWriter) { f(w) }

func Eq(column string, value any) Condition {
	return condFunc(func(w *sqlWriter) {
		w.raw(column, " = ")
		w.bind(value)
	})
}

func IsNull(column string) Condition {
	return condFunc(func(w *sqlWriter) { w.raw(column, " IS NULL") })
}

// In matches column against values. An empty set matches no rows.
func In(column string, values []any) Condition {
	return condFunc(func(w *sqlWriter) {
		if len(values) == 0 {
			w.raw("1=0")
			return
		}
		w.raw(column, " IN (")
		w.list(", ", len(values), func(i int) { w.bind(values[i]) })
		w.raw(")")
	})
}

func InStrings(column string, values []string) Condition {
	boxed := make([]any, len(values))
	for i, v := range values {
		boxed[i] = v
	}
	return In(column, boxed)
}

// Expr embeds raw SQL; each ? is bound to the next value.
func Expr(sql string, values ...any) Condition {
	return condFunc(func(w *sqlWriter) { w.fragment(sql, values) })
}

func Or(conds ...Condition) Condition {
	return condFunc(func(w *sqlWriter) {
		if len(conds) == 0 {
			w.raw("1=0")
			return
		}
		w.raw("(")
		w.list(" OR ", len(conds), func(i int) { conds[i].render(w) })
		w.raw(")")
	})
}
