package handler

import (
	"net/http"
	"strconv"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/service"
	"github.com/dadok/readingclub/internal/validation"
)

// CommentHandler handles the comment endpoints of a book group.
type CommentHandler struct {
	Base
	comments *service.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(base Base, comments *service.CommentService) *CommentHandler {
	return &CommentHandler{Base: base, comments: comments}
}

// List handles GET /api/book-groups/{groupId}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	page, err := parsePage(r, "commentCursorId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp, err := h.comments.List(r.Context(), groupID, page)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/book-groups/{groupId}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := mustUserID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	groupID, err := pathID(r, "groupId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req domain.CommentCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if errs := validation.ValidateComment(req); errs.HasErrors() {
		h.handleError(w, r, errs)
		return
	}

	id, err := h.comments.Create(r.Context(), userID, groupID, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/book-groups/"+strconv.FormatInt(groupID, 10)+"/comments/"+strconv.FormatInt(id, 10))
	respondJSON(w, http.StatusCreated, map[string]int64{"commentId": id})
}

// Delete handles DELETE /api/book-groups/{groupId}/comments/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := mustUserID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	groupID, err := pathID(r, "groupId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.comments.Delete(r.Context(), userID, groupID, commentID); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
