package sql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/query"
)

// ============================================
// Bookshelves
// ============================================

func createBookshelf(ctx context.Context, db dbInterface, shelf *domain.Bookshelf) error {
	id, err := insertReturningID(ctx, db,
		`INSERT INTO bookshelves (user_id, name, is_public, created_at) VALUES (?, ?, ?, ?)`,
		shelf.UserID, shelf.Name, shelf.IsPublic, shelf.CreatedAt)
	if err != nil {
		return wrapUniqueError(err, domain.ErrCodeBadRequest, "user already has a bookshelf")
	}
	shelf.ID = id
	return nil
}

func (s *Store) CreateBookshelf(ctx context.Context, shelf *domain.Bookshelf) error {
	return createBookshelf(ctx, s.db, shelf)
}

func (t *Tx) CreateBookshelf(ctx context.Context, shelf *domain.Bookshelf) error {
	return createBookshelf(ctx, t.tx, shelf)
}

func getBookshelfWhere(ctx context.Context, db dbInterface, column string, arg int64) (*domain.Bookshelf, error) {
	var shelf domain.Bookshelf
	err := db.GetContext(ctx, &shelf, db.Rebind(
		`SELECT id, user_id, name, is_public, created_at FROM bookshelves WHERE `+column+` = ?`), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("bookshelf")
	}
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

func (s *Store) GetBookshelf(ctx context.Context, id int64) (*domain.Bookshelf, error) {
	return getBookshelfWhere(ctx, s.db, "id", id)
}

func (t *Tx) GetBookshelf(ctx context.Context, id int64) (*domain.Bookshelf, error) {
	return getBookshelfWhere(ctx, t.tx, "id", id)
}

func (s *Store) GetBookshelfByUser(ctx context.Context, userID int64) (*domain.Bookshelf, error) {
	return getBookshelfWhere(ctx, s.db, "user_id", userID)
}

func (t *Tx) GetBookshelfByUser(ctx context.Context, userID int64) (*domain.Bookshelf, error) {
	return getBookshelfWhere(ctx, t.tx, "user_id", userID)
}

func addBookshelfItem(ctx context.Context, db dbInterface, item *domain.BookshelfItem) error {
	id, err := insertReturningID(ctx, db,
		`INSERT INTO bookshelf_items (bookshelf_id, book_id, type, created_at) VALUES (?, ?, ?, ?)`,
		item.BookshelfID, item.BookID, string(item.Type), item.CreatedAt)
	if err != nil {
		return wrapUniqueError(err, domain.ErrCodeAlreadyContainBookshelfItem, "the book is already on this bookshelf")
	}
	item.ID = id
	return nil
}

func (s *Store) AddBookshelfItem(ctx context.Context, item *domain.BookshelfItem) error {
	return addBookshelfItem(ctx, s.db, item)
}

func (t *Tx) AddBookshelfItem(ctx context.Context, item *domain.BookshelfItem) error {
	return addBookshelfItem(ctx, t.tx, item)
}

func removeBookshelfItem(ctx context.Context, db dbInterface, bookshelfID, bookID int64) error {
	return execAffecting(ctx, db, domain.NotFound("bookshelf item"),
		`DELETE FROM bookshelf_items WHERE bookshelf_id = ? AND book_id = ?`, bookshelfID, bookID)
}

func (s *Store) RemoveBookshelfItem(ctx context.Context, bookshelfID, bookID int64) error {
	return removeBookshelfItem(ctx, s.db, bookshelfID, bookID)
}

func (t *Tx) RemoveBookshelfItem(ctx context.Context, bookshelfID, bookID int64) error {
	return removeBookshelfItem(ctx, t.tx, bookshelfID, bookID)
}

type bookshelfItemRow struct {
	ItemID   int64  `db:"bookshelf_item_id"`
	BookID   int64  `db:"book_id"`
	Title    string `db:"title"`
	Author   string `db:"author"`
	ISBN     string `db:"isbn"`
	ImageURL string `db:"image_url"`
	Type     string `db:"type"`
}

func listBookshelfItems(ctx context.Context, db dbInterface, bookshelfID int64, itemType domain.BookshelfItemType, page domain.PageRequest) ([]domain.BookshelfBookResponse, error) {
	var typeFilter query.Predicate
	if itemType != "" {
		typeFilter = query.Eq("bi.type", string(itemType))
	}
	b := query.Select(
		"bi.id AS bookshelf_item_id",
		"b.id AS book_id",
		"b.title AS title",
		"b.author AS author",
		"b.isbn AS isbn",
		"b.image_url AS image_url",
		"bi.type AS type",
	).
		From("bookshelf_items bi").
		InnerJoin("books b", "b.id = bi.book_id").
		Where(query.Eq("bi.bookshelf_id", bookshelfID), typeFilter)

	var rows []bookshelfItemRow
	if err := selectBuilt(ctx, db, &rows, query.Paginate(b, "bi.id", page)); err != nil {
		return nil, err
	}
	out := make([]domain.BookshelfBookResponse, len(rows))
	for i, r := range rows {
		out[i] = domain.BookshelfBookResponse{
			BookshelfItemID: r.ItemID,
			BookID:          r.BookID,
			Title:           r.Title,
			Author:          r.Author,
			ISBN:            r.ISBN,
			ImageURL:        r.ImageURL,
			Type:            domain.BookshelfItemType(r.Type),
		}
	}
	return out, nil
}

func (s *Store) ListBookshelfItems(ctx context.Context, bookshelfID int64, itemType domain.BookshelfItemType, page domain.PageRequest) ([]domain.BookshelfBookResponse, error) {
	return listBookshelfItems(ctx, s.db, bookshelfID, itemType, page)
}

func (t *Tx) ListBookshelfItems(ctx context.Context, bookshelfID int64, itemType domain.BookshelfItemType, page domain.PageRequest) ([]domain.BookshelfBookResponse, error) {
	return listBookshelfItems(ctx, t.tx, bookshelfID, itemType, page)
}
