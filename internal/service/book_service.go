package service

import (
	"context"
	"errors"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/storage"
)

// BookService looks books up and registers new ones by ISBN.
type BookService struct {
	store storage.Storage
	now   Clock
}

// NewBookService creates a new BookService.
func NewBookService(store storage.Storage, clock Clock) *BookService {
	return &BookService{store: store, now: clock}
}

// GetByID returns a book that has not been deleted.
func (s *BookService) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	return s.store.GetBook(ctx, id)
}

// FindByISBN returns the book registered under isbn.
func (s *BookService) FindByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return s.store.GetBookByISBN(ctx, isbn)
}

// FindOrCreate returns the book with the request's ISBN, creating it first
// when it is unknown.
func (s *BookService) FindOrCreate(ctx context.Context, req domain.BookCreateRequest) (*domain.Book, error) {
	return s.findOrCreate(ctx, s.store, req)
}

// findOrCreate runs against st, which is the caller's transaction when
// the book is part of a larger write. Two concurrent creators of the same
// ISBN race on the unique index; the loser gets Duplicate.
func (s *BookService) findOrCreate(ctx context.Context, st storage.Storage, req domain.BookCreateRequest) (*domain.Book, error) {
	book, err := st.GetBookByISBN(ctx, req.ISBN)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	book = req.ToBook(s.now())
	if err := st.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}
