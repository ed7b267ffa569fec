package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dadok/readingclub/internal/api/middleware"
	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/metrics"
	"github.com/dadok/readingclub/internal/notify"
	"github.com/dadok/readingclub/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Base carries what every handler needs to report errors.
type Base struct {
	logger   *zap.Logger
	notifier notify.Notifier
}

// NewBase creates a Base. A nil notifier disables error notifications.
func NewBase(logger *zap.Logger, notifier notify.Notifier) Base {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return Base{logger: logger, notifier: notifier}
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrBusinessRule):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// handleError converts errors to the standard error body. Errors without a
// domain kind are logged and reported to the notifier; the client only sees
// a generic bad request.
func (b Base) handleError(w http.ResponseWriter, r *http.Request, err error) {
	resp := domain.ErrorResponse{Path: r.URL.Path}

	var verrs validation.ValidationErrors
	var derr *domain.Error
	switch {
	case errors.As(err, &verrs):
		resp.Status = http.StatusBadRequest
		resp.Code = domain.ErrCodeInvalidArgument
		resp.Message = "invalid request"
		resp.FieldErrors = verrs.FieldErrors()
	case errors.As(err, &derr):
		resp.Status = statusOf(derr)
		resp.Code = derr.Code
		resp.Message = derr.Message
		if derr.Field != "" {
			resp.FieldErrors = []domain.FieldError{{Field: derr.Field, Value: derr.Value, Reason: derr.Message}}
		}
		if resp.Status >= http.StatusInternalServerError {
			b.report(r, err)
		}
	default:
		resp.Status = http.StatusBadRequest
		resp.Code = domain.ErrCodeBadRequest
		resp.Message = "bad request"
		b.report(r, err)
	}

	metrics.RecordError(resp.Code, resp.Status)
	respondJSON(w, resp.Status, resp)
}

func (b Base) report(r *http.Request, err error) {
	requestID := middleware.RequestIDFromContext(r.Context())
	b.logger.Error("unhandled error",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestID))

	report := notify.ErrorReport{
		RequestID: requestID,
		Method:    r.Method,
		Path:      r.URL.Path,
		Message:   err.Error(),
		Time:      time.Now(),
	}
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if err := b.notifier.NotifyError(ctx, report); err != nil {
			b.logger.Warn("error notification failed", zap.Error(err))
		}
	}()
}

// decodeJSON decodes JSON from request body.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.InvalidArgument("body", "malformed JSON")
	}
	return nil
}

// pathID parses an int64 URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidArgument(name, raw)
	}
	return id, nil
}

// parsePage reads pageSize, sortDirection and the named cursor parameter.
func parsePage(r *http.Request, cursorParam string) (domain.PageRequest, error) {
	var page domain.PageRequest
	q := r.URL.Query()

	if raw := q.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return page, domain.InvalidArgument("pageSize", raw)
		}
		page.PageSize = size
	}
	if raw := q.Get(cursorParam); raw != "" {
		cursor, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || cursor <= 0 {
			return page, domain.InvalidArgument(cursorParam, raw)
		}
		page.CursorID = &cursor
	}
	dir, err := domain.ParseSortDirection(q.Get("sortDirection"))
	if err != nil {
		return page, err
	}
	page.Direction = dir
	return page.Normalize()
}

// requesterID returns the authenticated user id, or nil for anonymous
// requests.
func requesterID(r *http.Request) *int64 {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	return &id
}

// mustUserID returns the authenticated user id. Routes using it are behind
// RequireUser.
func mustUserID(r *http.Request) (int64, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return 0, domain.Unauthorized(domain.ErrCodeInvalidAccessToken, "authentication is required")
	}
	return id, nil
}
