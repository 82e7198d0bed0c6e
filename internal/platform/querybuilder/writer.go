package querybuilder

import (
	"strconv"
	"strings"
)

// sqlWriter accumulates statement text together with its positional
// arguments. Placeholders are numbered in the order values are bound.
type sqlWriter struct {
	sb   strings.Builder
	args []any
}

func (w *sqlWriter) raw(parts ...string) {
	for _, p := range parts {
		w.sb.WriteString(p)
	}
}

func (w *sqlWriter) bind(v any) {
	w.args = append(w.args, v)
	w.sb.WriteByte('$')
	w.sb.WriteString(strconv.Itoa(len(w.args)))
}

// fragment writes expr, binding the given values in place of each '?'.
// Extra question marks are written as-is.
func (w *sqlWriter) fragment(expr string, values []any) {
	for len(expr) > 0 {
		i := strings.IndexByte(expr, '?')
		if i < 0 || len(values) == 0 {
			w.sb.WriteString(expr)
			return
		}
		w.sb.WriteString(expr[:i])
		w.bind(values[0])
		values = values[1:]
		expr = expr[i+1:]
	}
}

func (w *sqlWriter) list(sep string, n int, each func(i int)) {
	for i := 0; i < n; i++ {
		if i > 0 {
			w.sb.WriteString(sep)
		}
		each(i)
	}
}

func (w *sqlWriter) where(conds []Condition) {
	if len(conds) == 0 {
		return
	}
	w.raw(" WHERE ")
	w.list(" AND ", len(conds), func(i int) { conds[i].render(w) })
}

func (w *sqlWriter) suffix(s string) {
	if s != "" {
		w.raw(" ", s)
	}
}

func (w *sqlWriter) result() (string, []any, error) {
	return w.sb.String(), w.args, nil
}
