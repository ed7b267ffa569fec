package handler

import (
	"net/http"

	"github.com/dadok/readingclub/internal/service"
)

// BookHandler handles book endpoints.
type BookHandler struct {
	Base
	books *service.BookService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(base Base, books *service.BookService) *BookHandler {
	return &BookHandler{Base: base, books: books}
}

// Get handles GET /api/books/{bookId}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	book, err := h.books.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}
