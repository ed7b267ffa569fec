package domain

import "strings"

// Page size bounds for every cursor-paginated listing.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// SortDirection orders a keyset-paginated listing by its identifier column.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection parses a query parameter. Empty means DESC.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return SortDesc, nil
	case "DESC":
		return SortDesc, nil
	case "ASC":
		return SortAsc, nil
	default:
		return "", InvalidArgument("sortDirection", s)
	}
}

// PageRequest carries the shared keyset paging parameters.
type PageRequest struct {
	PageSize  int
	CursorID  *int64
	Direction SortDirection
}

// Normalize fills defaults and rejects out-of-range sizes.
func (p PageRequest) Normalize() (PageRequest, error) {
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return p, InvalidArgument("pageSize", p.PageSize)
	}
	if p.Direction == "" {
		p.Direction = SortDesc
	}
	return p, nil
}

// SliceMeta is the page header shared by every list response.
type SliceMeta struct {
	Count   int  `json:"count"`
	IsEmpty bool `json:"isEmpty"`
	IsFirst bool `json:"isFirst"`
	IsLast  bool `json:"isLast"`
	HasNext bool `json:"hasNext"`
}
