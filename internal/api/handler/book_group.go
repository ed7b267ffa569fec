package handler

import (
	"net/http"
	"strconv"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/service"
	"github.com/dadok/readingclub/internal/validation"
)

const groupCursorParam = "groupCursorId"

// BookGroupHandler handles book group endpoints.
type BookGroupHandler struct {
	Base
	groups *service.BookGroupService
}

// NewBookGroupHandler creates a new BookGroupHandler.
func NewBookGroupHandler(base Base, groups *service.BookGroupService) *BookGroupHandler {
	return &BookGroupHandler{Base: base, groups: groups}
}

// List handles GET /api/book-groups
func (h *BookGroupHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, groupCursorParam)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp, err := h.groups.FindAll(r.Context(), service.SearchRequest{PageRequest: page})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListMine handles GET /api/book-groups/me
func (h *BookGroupHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := mustUserID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.listByUser(w, r, userID)
}

// ListByUser handles GET /api/users/{userId}/book-groups
func (h *BookGroupHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.listByUser(w, r, userID)
}

func (h *BookGroupHandler) listByUser(w http.ResponseWriter, r *http.Request, userID int64) {
	page, err := parsePage(r, groupCursorParam)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp, err := h.groups.FindAllByUser(r.Context(), service.SearchRequest{PageRequest: page}, userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Search handles GET /api/book-groups/search
func (h *BookGroupHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, groupCursorParam)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	option, err := domain.ParseGroupSearchOption(r.URL.Query().Get("option"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp, err := h.groups.FindByQuery(r.Context(), service.QueryRequest{
		PageRequest: page,
		Query:       r.URL.Query().Get("query"),
		Option:      option,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/book-groups/{groupId}
func (h *BookGroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp, err := h.groups.FindGroup(r.Context(), requesterID(r), groupID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	SetBookGroupETag(w, resp.BookGroupID, resp.UpdatedAt)
	respondJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/book-groups
func (h *BookGroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := mustUserID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req domain.BookGroupCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if errs := validation.ValidateGroupCreate(req); errs.HasErrors() {
		h.handleError(w, r, errs)
		return
	}

	id, err := h.groups.Create(r.Context(), userID, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/book-groups/"+strconv.FormatInt(id, 10))
	respondJSON(w, http.StatusCreated, map[string]int64{"bookGroupId": id})
}

// Update handles PUT /api/book-groups/{groupId}
func (h *BookGroupHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req domain.BookGroupUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if errs := validation.ValidateGroupUpdate(req); errs.HasErrors() {
		h.handleError(w, r, errs)
		return
	}

	ifMatch := func(group *domain.BookGroup) bool {
		return CheckBookGroupIfMatch(r, group)
	}
	updated, err := h.groups.Update(r.Context(), userID, groupID, req, ifMatch)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	SetBookGroupETag(w, updated.ID, updated.UpdatedAt)
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/book-groups/{groupId}
func (h *BookGroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.groups.Delete(r.Context(), userID, groupID); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Join handles POST /api/book-groups/{groupId}/join
func (h *BookGroupHandler) Join(w http.ResponseWriter, r *http.Request) {
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

	var req domain.BookGroupJoinRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.handleError(w, r, err)
			return
		}
	}

	if err := h.groups.Join(r.Context(), userID, groupID, req); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Leave handles DELETE /api/book-groups/{groupId}/leave
func (h *BookGroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
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

	if err := h.groups.Leave(r.Context(), userID, groupID); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
