package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dadok/readingclub/internal/auth"
	"github.com/dadok/readingclub/internal/domain"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate resolves the bearer token, when one is sent, to the
// requester's user id. Requests without an Authorization header pass
// through anonymously; a malformed or invalid token is rejected.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				writeError(w, r, domain.Unauthorized(domain.ErrCodeInvalidAccessToken, "invalid authorization header format"))
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous requests. It must run after Authenticate.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			writeError(w, r, domain.Unauthorized(domain.ErrCodeInvalidAccessToken, "authentication is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUserID stores the requester's user id in ctx.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the requester's user id, if authenticated.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDContextKey).(int64)
	return id, ok
}

// writeError writes the standard error body for errors raised before a
// handler runs.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusUnauthorized
	resp := domain.ErrorResponse{
		Status:  status,
		Code:    domain.ErrCodeInvalidAccessToken,
		Message: "unauthorized",
		Path:    r.URL.Path,
	}
	var derr *domain.Error
	if errors.As(err, &derr) {
		resp.Code = derr.Code
		resp.Message = derr.Message
	}
	respond(w, status, resp)
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
