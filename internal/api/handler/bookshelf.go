package handler

import (
	"net/http"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/service"
	"github.com/dadok/readingclub/internal/validation"
)

// BookshelfHandler handles bookshelf endpoints.
type BookshelfHandler struct {
	Base
	shelves *service.BookshelfService
}

// NewBookshelfHandler creates a new BookshelfHandler.
func NewBookshelfHandler(base Base, shelves *service.BookshelfService) *BookshelfHandler {
	return &BookshelfHandler{Base: base, shelves: shelves}
}

// Summary handles GET /api/users/{userId}/bookshelves
func (h *BookshelfHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp, err := h.shelves.Summary(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListItems handles GET /api/bookshelves/{bookshelfId}/books
func (h *BookshelfHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	shelfID, err := pathID(r, "bookshelfId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	page, err := parsePage(r, "bookCursorId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	itemType, err := domain.ParseBookshelfItemType(r.URL.Query().Get("type"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp, err := h.shelves.ListItems(r.Context(), shelfID, itemType, page)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// InsertItem handles POST /api/bookshelves/{bookshelfId}/books
func (h *BookshelfHandler) InsertItem(w http.ResponseWriter, r *http.Request) {
	userID, err := mustUserID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	shelfID, err := pathID(r, "bookshelfId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req domain.BookshelfItemCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if errs := validation.ValidateBook(req.Book, "book."); errs.HasErrors() {
		h.handleError(w, r, errs)
		return
	}
	if req.Type != "" {
		if req.Type, err = domain.ParseBookshelfItemType(string(req.Type)); err != nil {
			h.handleError(w, r, err)
			return
		}
	}

	item, err := h.shelves.InsertItem(r.Context(), userID, shelfID, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// RemoveItem handles DELETE /api/bookshelves/{bookshelfId}/books/{bookId}
func (h *BookshelfHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := mustUserID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	shelfID, err := pathID(r, "bookshelfId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	bookID, err := pathID(r, "bookId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.shelves.RemoveItem(r.Context(), userID, shelfID, bookID); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
