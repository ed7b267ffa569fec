// Package service holds the business rules of the reading club: group
// membership, comments, bookshelves and the user projections. Handlers
// validate input shape; services enforce ownership, membership and
// capacity rules and own transaction boundaries.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/storage"
	"go.uber.org/zap"
)

// Clock returns the current time. Services take one so tests can pin dates.
type Clock func() time.Time

// SystemClock is the wall clock truncated to microseconds, the precision
// postgres keeps. Stored timestamps then round-trip unchanged, which keeps
// ETags stable.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// withTx runs fn inside a transaction and commits when it returns nil.
func withTx(ctx context.Context, store storage.Storage, fn func(tx storage.Transaction) error) error {
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Services bundles every service over one store.
type Services struct {
	Books       *BookService
	Users       *UserService
	Groups      *BookGroupService
	Comments    *CommentService
	Bookshelves *BookshelfService
}

// New wires all services. jobs is the job table loaded at startup.
func New(store storage.Storage, jobs *domain.JobTable, logger *zap.Logger, clock Clock) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock
	}
	books := NewBookService(store, clock)
	users := NewUserService(store, jobs, logger, clock)
	return &Services{
		Books:       books,
		Users:       users,
		Groups:      NewBookGroupService(store, books, users, logger, clock),
		Comments:    NewCommentService(store, logger, clock),
		Bookshelves: NewBookshelfService(store, books, clock),
	}
}

// LoadJobTable reads the job reference data once.
func LoadJobTable(ctx context.Context, store storage.Storage) (*domain.JobTable, error) {
	jobs, err := store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load job table: %w", err)
	}
	return domain.NewJobTable(jobs), nil
}
