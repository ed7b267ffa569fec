package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dadok/readingclub/internal/api/handler"
	"github.com/dadok/readingclub/internal/api/middleware"
	"github.com/dadok/readingclub/internal/metrics"
	"github.com/dadok/readingclub/internal/notify"
	"github.com/dadok/readingclub/internal/service"
	"github.com/dadok/readingclub/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Store       storage.Storage
	Services    *service.Services
	Tokens      middleware.TokenParser
	Logger      *zap.Logger
	Notifier    notify.Notifier
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	base := handler.NewBase(logger, deps.Notifier)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(middleware.Authenticate(deps.Tokens))
	r.Use(middleware.Logging(logger))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Handler)
	}

	// Health check (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := deps.Store.Ping(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	groupHandler := handler.NewBookGroupHandler(base, deps.Services.Groups)
	commentHandler := handler.NewCommentHandler(base, deps.Services.Comments)
	bookHandler := handler.NewBookHandler(base, deps.Services.Books)
	userHandler := handler.NewUserHandler(base, deps.Services.Users)
	shelfHandler := handler.NewBookshelfHandler(base, deps.Services.Bookshelves)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ContentType)

		// Book groups. The static segments are registered before
		// {groupId}; chi prefers them either way.
		r.Route("/book-groups", func(r chi.Router) {
			r.Get("/", groupHandler.List)
			r.Get("/search", groupHandler.Search)
			r.With(middleware.RequireUser).Get("/me", groupHandler.ListMine)
			r.With(middleware.RequireUser).Post("/", groupHandler.Create)

			r.Route("/{groupId}", func(r chi.Router) {
				r.Get("/", groupHandler.Get)
				r.Get("/comments", commentHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireUser)
					r.Put("/", groupHandler.Update)
					r.Delete("/", groupHandler.Delete)
					r.Post("/join", groupHandler.Join)
					r.Delete("/leave", groupHandler.Leave)
					r.Post("/comments", commentHandler.Create)
					r.Delete("/comments/{commentId}", commentHandler.Delete)
				})
			})
		})

		// Books
		r.Get("/books/{bookId}", bookHandler.Get)

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/me", userHandler.Me)
				r.Patch("/me/nickname", userHandler.ChangeNickname)
				r.Put("/me/jobs", userHandler.RegisterJob)
			})
			r.Get("/{userId}/profile", userHandler.Profile)
			r.Get("/{userId}/book-groups", groupHandler.ListByUser)
			r.Get("/{userId}/bookshelves", shelfHandler.Summary)
		})

		// Jobs
		r.Get("/jobs", userHandler.ListJobs)

		// Bookshelves
		r.Route("/bookshelves/{bookshelfId}/books", func(r chi.Router) {
			r.Get("/", shelfHandler.ListItems)
			r.With(middleware.RequireUser).Post("/", shelfHandler.InsertItem)
			r.With(middleware.RequireUser).Delete("/{bookId}", shelfHandler.RemoveItem)
		})
	})

	return r
}
