package query

import (
	"strconv"
	"strings"
)

// SelectBuilder assembles a SELECT statement piece by piece.
type SelectBuilder struct {
	distinct bool
	columns  []string
	from     string
	joins    []string
	where    []Predicate
	groupBy  []string
	orderBy  []string
	limit    int
}

// Select starts a statement with the given result columns.
func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

// Columns appends result columns.
func (b *SelectBuilder) Columns(columns ...string) *SelectBuilder {
	b.columns = append(b.columns, columns...)
	return b
}

// Distinct makes the statement SELECT DISTINCT.
func (b *SelectBuilder) Distinct() *SelectBuilder {
	b.distinct = true
	return b
}

// From sets the primary table.
func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.from = table
	return b
}

// InnerJoin drops primary rows with no match in table.
func (b *SelectBuilder) InnerJoin(table, on string) *SelectBuilder {
	b.joins = append(b.joins, "INNER JOIN "+table+" ON "+on)
	return b
}

// LeftJoin keeps primary rows with no match in table.
func (b *SelectBuilder) LeftJoin(table, on string) *SelectBuilder {
	b.joins = append(b.joins, "LEFT JOIN "+table+" ON "+on)
	return b
}

// Where ANDs predicates into the filter. Nil predicates are ignored.
func (b *SelectBuilder) Where(preds ...Predicate) *SelectBuilder {
	b.where = append(b.where, compact(preds)...)
	return b
}

// GroupBy sets the grouping columns.
func (b *SelectBuilder) GroupBy(columns ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, columns...)
	return b
}

// OrderBy appends ordering terms.
func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

// Limit caps the number of rows. Zero means no limit.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

// ToSQL renders the statement with '?' placeholders.
func (b *SelectBuilder) ToSQL() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.from)
	for _, j := range b.joins {
		sb.WriteByte(' ')
		sb.WriteString(j)
	}

	var args []any
	if w := And(b.where...); w != nil {
		s, a := w.SQL()
		sb.WriteString(" WHERE ")
		sb.WriteString(s)
		args = a
	}
	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}
	return sb.String(), args
}
