package handler

import (
	"net/http"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/service"
	"github.com/dadok/readingclub/internal/validation"
)

// UserHandler handles user and job endpoints.
type UserHandler struct {
	Base
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(base Base, users *service.UserService) *UserHandler {
	return &UserHandler{Base: base, users: users}
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := mustUserID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp, err := h.users.Detail(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Profile handles GET /api/users/{userId}/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ChangeNickname handles PATCH /api/users/me/nickname
func (h *UserHandler) ChangeNickname(w http.ResponseWriter, r *http.Request) {
	userID, err := mustUserID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req domain.NicknameChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := validation.ValidateNickname(req.Nickname); err != nil {
		var errs validation.ValidationErrors
		errs.Add("nickname", req.Nickname, err.Error())
		h.handleError(w, r, errs)
		return
	}

	if err := h.users.ChangeNickname(r.Context(), userID, req.Nickname); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterJob handles PUT /api/users/me/jobs
func (h *UserHandler) RegisterJob(w http.ResponseWriter, r *http.Request) {
	userID, err := mustUserID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req domain.JobRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if errs := validation.ValidateJobRegister(req); errs.HasErrors() {
		h.handleError(w, r, errs)
		return
	}

	resp, err := h.users.RegisterJob(r.Context(), userID, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListJobs handles GET /api/jobs
func (h *UserHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]domain.Job{"jobs": h.users.Jobs()})
}
