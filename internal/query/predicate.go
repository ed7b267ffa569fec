// Package query composes the SQL for cursor-paginated listings: boolean
// predicates, keyset restrictions, aggregate projections over book groups and
// the slice view returned to callers.
//
// Statements are written with '?' placeholders; storage rebinds them for the
// active driver with sqlx.Rebind.
package query

import "strings"

// Predicate is a boolean SQL expression together with its bind arguments.
// A nil Predicate means "no restriction" and is skipped wherever predicates
// are combined.
type Predicate interface {
	SQL() (string, []any)
}

type expr struct {
	sql  string
	args []any
}

func (e expr) SQL() (string, []any) {
	return e.sql, e.args
}

// Expr wraps a raw SQL fragment.
func Expr(sql string, args ...any) Predicate {
	return expr{sql: sql, args: args}
}

// Eq matches column = v.
func Eq(column string, v any) Predicate {
	return expr{sql: column + " = ?", args: []any{v}}
}

// Lt matches column < v.
func Lt(column string, v any) Predicate {
	return expr{sql: column + " < ?", args: []any{v}}
}

// Gt matches column > v.
func Gt(column string, v any) Predicate {
	return expr{sql: column + " > ?", args: []any{v}}
}

// StartsWith matches rows whose column begins with prefix. LIKE wildcards in
// prefix are escaped, so the match is literal.
func StartsWith(column, prefix string) Predicate {
	return expr{sql: column + ` LIKE ? ESCAPE '\'`, args: []any{escapeLike(prefix) + "%"}}
}

// Exists matches when the subquery returns at least one row.
func Exists(sub *SelectBuilder) Predicate {
	sql, args := sub.ToSQL()
	return expr{sql: "EXISTS (" + sql + ")", args: args}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type junction struct {
	op    string
	parts []Predicate
}

func (j junction) SQL() (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteByte('(')
	for i, p := range j.parts {
		if i > 0 {
			sb.WriteString(" " + j.op + " ")
		}
		s, a := p.SQL()
		sb.WriteString(s)
		args = append(args, a...)
	}
	sb.WriteByte(')')
	return sb.String(), args
}

// And joins predicates with AND. Nil predicates are dropped; And of nothing is nil.
func And(preds ...Predicate) Predicate {
	return join("AND", preds)
}

// Or joins predicates with OR. Nil predicates are dropped; Or of nothing is nil.
func Or(preds ...Predicate) Predicate {
	return join("OR", preds)
}

func join(op string, preds []Predicate) Predicate {
	parts := compact(preds)
	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	default:
		return junction{op: op, parts: parts}
	}
}

func compact(preds []Predicate) []Predicate {
	out := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
