package domain

import (
	"strings"
	"time"
)

// Bookshelf is a user's personal collection. Every user has exactly one.
type Bookshelf struct {
	ID        int64     `json:"bookshelfId" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Name      string    `json:"bookshelfName" db:"name"`
	IsPublic  bool      `json:"isPublic" db:"is_public"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// IsOwner reports whether userID owns the bookshelf.
func (b *Bookshelf) IsOwner(userID int64) bool {
	return b.UserID == userID
}

// BookshelfItemType tells whether a book has been read or is being read.
type BookshelfItemType string

const (
	ItemRead    BookshelfItemType = "READ"
	ItemReading BookshelfItemType = "READING"
)

// ParseBookshelfItemType parses an optional type filter. Empty means any.
func ParseBookshelfItemType(s string) (BookshelfItemType, error) {
	switch t := BookshelfItemType(strings.ToUpper(strings.TrimSpace(s))); t {
	case "", ItemRead, ItemReading:
		return t, nil
	default:
		return "", InvalidArgument("type", s)
	}
}

// BookshelfItem places a book on a bookshelf.
type BookshelfItem struct {
	ID          int64             `json:"bookshelfItemId" db:"id"`
	BookshelfID int64             `json:"bookshelfId" db:"bookshelf_id"`
	BookID      int64             `json:"bookId" db:"book_id"`
	Type        BookshelfItemType `json:"type" db:"type"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
}

// BookshelfItemCreateRequest is the body of POST /api/bookshelves/{id}/books.
type BookshelfItemCreateRequest struct {
	Book BookCreateRequest `json:"book"`
	Type BookshelfItemType `json:"type,omitempty"`
}

// BookshelfBookResponse is one book on a bookshelf.
type BookshelfBookResponse struct {
	BookshelfItemID int64             `json:"bookshelfItemId"`
	BookID          int64             `json:"bookId"`
	Title           string            `json:"title"`
	Author          string            `json:"author"`
	ISBN            string            `json:"isbn"`
	ImageURL        string            `json:"imageUrl"`
	Type            BookshelfItemType `json:"type"`
}

// BookshelfBookResponses is a page of bookshelf items.
type BookshelfBookResponses struct {
	SliceMeta
	Books []BookshelfBookResponse `json:"books"`
}

// SummaryBookshelfResponse shows a bookshelf with its newest books.
type SummaryBookshelfResponse struct {
	BookshelfID   int64                   `json:"bookshelfId"`
	BookshelfName string                  `json:"bookshelfName"`
	UserID        int64                   `json:"userId"`
	Books         []BookshelfBookResponse `json:"books"`
}

// SummaryBookCount is how many books a bookshelf summary shows.
const SummaryBookCount = 5
