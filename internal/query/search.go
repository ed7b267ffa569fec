package query

import "github.com/dadok/readingclub/internal/domain"

// Columns searched by keyword.
const (
	GroupTitleColumn = "bg.title"
	BookTitleColumn  = "b.title"
)

// SearchPredicate builds the keyword filter for a group search. With no
// option both the group title and the book title are prefix-matched.
func SearchPredicate(option domain.GroupSearchOption, text string) (Predicate, error) {
	switch option {
	case domain.SearchNone:
		return Or(StartsWith(GroupTitleColumn, text), StartsWith(BookTitleColumn, text)), nil
	case domain.SearchBookName:
		return StartsWith(BookTitleColumn, text), nil
	case domain.SearchGroupName:
		return StartsWith(GroupTitleColumn, text), nil
	default:
		return nil, domain.InvalidState("unexpected group search option: %q", string(option))
	}
}
