package query

import "github.com/dadok/readingclub/internal/domain"

// CursorCondition restricts a listing to rows strictly after the cursor in
// the given direction. The first page has no cursor and no restriction.
func CursorCondition(column string, dir domain.SortDirection, cursor *int64) Predicate {
	if cursor == nil {
		return nil
	}
	if dir == domain.SortAsc {
		return Gt(column, *cursor)
	}
	return Lt(column, *cursor)
}

// OrderBy renders the ORDER BY term for a keyset column.
func OrderBy(column string, dir domain.SortDirection) string {
	if dir == domain.SortAsc {
		return column + " ASC"
	}
	return column + " DESC"
}

// FetchLimit is the number of rows to request for a page: one extra row
// tells whether a next page exists.
func FetchLimit(pageSize int) int {
	return pageSize + 1
}

// Paginate applies the cursor restriction, ordering and over-fetch limit of
// page to b. column must be unique so the order has no ties.
func Paginate(b *SelectBuilder, column string, page domain.PageRequest) *SelectBuilder {
	return b.Where(CursorCondition(column, page.Direction, page.CursorID)).
		OrderBy(OrderBy(column, page.Direction)).
		Limit(FetchLimit(page.PageSize))
}
