package query

import "github.com/dadok/readingclub/internal/domain"

// Slice is a read-only page of results plus the flags needed to continue
// paging. It never exposes its backing array.
type Slice[T any] struct {
	items   []T
	hasNext bool
	first   bool
}

// NewSlice builds a page from rows fetched with FetchLimit(pageSize). A row
// beyond pageSize only proves that a next page exists and is trimmed off.
//
// The page counts as first when no cursor was supplied; it is not checked
// against the true first row of the result set.
func NewSlice[T any](rows []T, pageSize int, cursor *int64) Slice[T] {
	if pageSize < 0 {
		pageSize = 0
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	items := make([]T, len(rows))
	copy(items, rows)
	return Slice[T]{items: items, hasNext: hasNext, first: cursor == nil}
}

// Map converts every element, keeping the paging flags.
func Map[T, U any](s Slice[T], f func(T) U) Slice[U] {
	items := make([]U, len(s.items))
	for i, it := range s.items {
		items[i] = f(it)
	}
	return Slice[U]{items: items, hasNext: s.hasNext, first: s.first}
}

// Items returns a copy of the page's elements.
func (s Slice[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s Slice[T]) Count() int    { return len(s.items) }
func (s Slice[T]) IsEmpty() bool { return len(s.items) == 0 }
func (s Slice[T]) IsFirst() bool { return s.first }
func (s Slice[T]) IsLast() bool  { return !s.hasNext }
func (s Slice[T]) HasNext() bool { return s.hasNext }

// Meta returns the page header used by list responses.
func (s Slice[T]) Meta() domain.SliceMeta {
	return domain.SliceMeta{
		Count:   s.Count(),
		IsEmpty: s.IsEmpty(),
		IsFirst: s.IsFirst(),
		IsLast:  s.IsLast(),
		HasNext: s.HasNext(),
	}
}
