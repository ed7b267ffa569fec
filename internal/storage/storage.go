package storage

import (
	"context"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/query"
)

// GroupFilter narrows a book group listing. A nil Where lists every group.
// Distinct adds SELECT DISTINCT for predicates that reach through joined
// tables.
type GroupFilter struct {
	Where    query.Predicate
	Distinct bool
}

// Storage defines the interface for the storage layer.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error

	// BeginTx starts a new transaction.
	BeginTx(ctx context.Context) (Transaction, error)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserDetail(ctx context.Context, id int64) (*domain.UserDetailResponse, error)
	GetUserProfile(ctx context.Context, id int64) (*domain.UserProfileResponse, error)
	ExistsNickname(ctx context.Context, nickname string) (bool, error)
	UpdateUserNickname(ctx context.Context, id int64, nickname string) error
	UpdateUserJob(ctx context.Context, id int64, jobID int64) error

	// Jobs
	ListJobs(ctx context.Context) ([]domain.Job, error)

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error)

	// Book groups
	CreateBookGroup(ctx context.Context, group *domain.BookGroup) error
	GetBookGroup(ctx context.Context, id int64) (*domain.BookGroup, error)
	UpdateBookGroup(ctx context.Context, group *domain.BookGroup) error
	DeleteBookGroup(ctx context.Context, id int64) error
	ListBookGroups(ctx context.Context, filter GroupFilter, page domain.PageRequest) ([]query.GroupRow, error)
	GetBookGroupDetail(ctx context.Context, id int64) (*query.GroupDetailRow, error)

	// Group members
	AddGroupMember(ctx context.Context, member *domain.GroupMember) error
	RemoveGroupMember(ctx context.Context, groupID, userID int64) error
	IsGroupMember(ctx context.Context, groupID, userID int64) (bool, error)
	CountGroupMembers(ctx context.Context, groupID int64) (int, error)

	// Group comments
	CreateComment(ctx context.Context, comment *domain.GroupComment) error
	GetComment(ctx context.Context, id int64) (*domain.GroupComment, error)
	DeleteComment(ctx context.Context, id int64) error
	DeleteGroupComments(ctx context.Context, groupID int64) error
	ListComments(ctx context.Context, groupID int64, page domain.PageRequest) ([]domain.CommentResponse, error)

	// Bookshelves
	CreateBookshelf(ctx context.Context, shelf *domain.Bookshelf) error
	GetBookshelf(ctx context.Context, id int64) (*domain.Bookshelf, error)
	GetBookshelfByUser(ctx context.Context, userID int64) (*domain.Bookshelf, error)
	AddBookshelfItem(ctx context.Context, item *domain.BookshelfItem) error
	RemoveBookshelfItem(ctx context.Context, bookshelfID, bookID int64) error
	ListBookshelfItems(ctx context.Context, bookshelfID int64, itemType domain.BookshelfItemType, page domain.PageRequest) ([]domain.BookshelfBookResponse, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Storage
	Commit() error
	Rollback() error
}
