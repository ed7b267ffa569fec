package service

import (
	"context"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/query"
	"github.com/dadok/readingclub/internal/storage"
)

// BookshelfService manages a user's bookshelf.
type BookshelfService struct {
	store storage.Storage
	books *BookService
	now   Clock
}

// NewBookshelfService creates a new BookshelfService.
func NewBookshelfService(store storage.Storage, books *BookService, clock Clock) *BookshelfService {
	return &BookshelfService{store: store, books: books, now: clock}
}

// Summary returns the user's bookshelf with its newest books.
func (s *BookshelfService) Summary(ctx context.Context, userID int64) (*domain.SummaryBookshelfResponse, error) {
	shelf, err := s.store.GetBookshelfByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	page := domain.PageRequest{PageSize: domain.SummaryBookCount, Direction: domain.SortDesc}
	rows, err := s.store.ListBookshelfItems(ctx, shelf.ID, "", page)
	if err != nil {
		return nil, err
	}
	return &domain.SummaryBookshelfResponse{
		BookshelfID:   shelf.ID,
		BookshelfName: shelf.Name,
		UserID:        shelf.UserID,
		Books:         query.NewSlice(rows, page.PageSize, nil).Items(),
	}, nil
}

// ListItems pages through the books on a bookshelf, optionally only those
// of one type.
func (s *BookshelfService) ListItems(ctx context.Context, bookshelfID int64, itemType domain.BookshelfItemType, page domain.PageRequest) (*domain.BookshelfBookResponses, error) {
	if _, err := s.store.GetBookshelf(ctx, bookshelfID); err != nil {
		return nil, err
	}
	page, err := page.Normalize()
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListBookshelfItems(ctx, bookshelfID, itemType, page)
	if err != nil {
		return nil, err
	}
	slice := query.NewSlice(rows, page.PageSize, page.CursorID)
	return &domain.BookshelfBookResponses{SliceMeta: slice.Meta(), Books: slice.Items()}, nil
}

func shelfOwnerOnly(shelf *domain.Bookshelf, userID int64) error {
	if !shelf.IsOwner(userID) {
		return domain.Unauthorized(domain.ErrCodeBookshelfUserNotMatched, "only the owner can change this bookshelf")
	}
	return nil
}

// InsertItem puts a book on the bookshelf, registering the book first when
// its ISBN is unknown.
func (s *BookshelfService) InsertItem(ctx context.Context, userID, bookshelfID int64, req domain.BookshelfItemCreateRequest) (*domain.BookshelfItem, error) {
	itemType := req.Type
	if itemType == "" {
		itemType = domain.ItemRead
	}
	var item *domain.BookshelfItem
	err := withTx(ctx, s.store, func(tx storage.Transaction) error {
		shelf, err := tx.GetBookshelf(ctx, bookshelfID)
		if err != nil {
			return err
		}
		if err := shelfOwnerOnly(shelf, userID); err != nil {
			return err
		}
		book, err := s.books.findOrCreate(ctx, tx, req.Book)
		if err != nil {
			return err
		}
		item = &domain.BookshelfItem{
			BookshelfID: bookshelfID,
			BookID:      book.ID,
			Type:        itemType,
			CreatedAt:   s.now(),
		}
		return tx.AddBookshelfItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem takes a book off the bookshelf.
func (s *BookshelfService) RemoveItem(ctx context.Context, userID, bookshelfID, bookID int64) error {
	shelf, err := s.store.GetBookshelf(ctx, bookshelfID)
	if err != nil {
		return err
	}
	if err := shelfOwnerOnly(shelf, userID); err != nil {
		return err
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return err
	}
	return s.store.RemoveBookshelfItem(ctx, bookshelfID, bookID)
}
