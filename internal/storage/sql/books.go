package sql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dadok/readingclub/internal/domain"
)

// ============================================
// Books
// ============================================

const bookColumns = `id, title, author, isbn, contents, url, image_url, image_key, publisher, api_provider, is_deleted, created_at`

func createBook(ctx context.Context, db dbInterface, book *domain.Book) error {
	id, err := insertReturningID(ctx, db,
		`INSERT INTO books (title, author, isbn, contents, url, image_url, image_key, publisher, api_provider, is_deleted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.Title, book.Author, book.ISBN, book.Contents, book.URL, book.ImageURL, book.ImageKey,
		book.Publisher, book.APIProvider, book.IsDeleted, book.CreatedAt)
	if err != nil {
		return wrapUniqueError(err, domain.ErrCodeDuplicateISBN, "a book with this isbn already exists")
	}
	book.ID = id
	return nil
}

func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	return createBook(ctx, s.db, book)
}

func (t *Tx) CreateBook(ctx context.Context, book *domain.Book) error {
	return createBook(ctx, t.tx, book)
}

func getBookWhere(ctx context.Context, db dbInterface, column string, arg any) (*domain.Book, error) {
	var book domain.Book
	err := db.GetContext(ctx, &book, db.Rebind(
		`SELECT `+bookColumns+` FROM books WHERE `+column+` = ?`), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("book")
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// getBook hides soft-deleted books. Lookups by ISBN still see them so a
// deleted book is never inserted twice.
func getBook(ctx context.Context, db dbInterface, id int64) (*domain.Book, error) {
	book, err := getBookWhere(ctx, db, "id", id)
	if err != nil {
		return nil, err
	}
	if book.IsDeleted {
		return nil, domain.NotFound("book")
	}
	return book, nil
}

func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	return getBook(ctx, s.db, id)
}

func (t *Tx) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	return getBook(ctx, t.tx, id)
}

func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return getBookWhere(ctx, s.db, "isbn", isbn)
}

func (t *Tx) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return getBookWhere(ctx, t.tx, "isbn", isbn)
}
