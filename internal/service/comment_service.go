package service

import (
	"context"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/query"
	"github.com/dadok/readingclub/internal/sanitize"
	"github.com/dadok/readingclub/internal/storage"
	"go.uber.org/zap"
)

// CommentService manages the comments of a book group. Only members write,
// only the writer deletes, and replies nest one level deep.
type CommentService struct {
	store  storage.Storage
	logger *zap.Logger
	now    Clock
}

// NewCommentService creates a new CommentService.
func NewCommentService(store storage.Storage, logger *zap.Logger, clock Clock) *CommentService {
	return &CommentService{store: store, logger: logger, now: clock}
}

// Create posts a comment as userID and returns its id.
func (s *CommentService) Create(ctx context.Context, userID, groupID int64, req domain.CommentCreateRequest) (int64, error) {
	if _, err := s.store.GetBookGroup(ctx, groupID); err != nil {
		return 0, err
	}
	member, err := s.store.IsGroupMember(ctx, groupID, userID)
	if err != nil {
		return 0, err
	}
	if !member {
		return 0, domain.Unauthorized(domain.ErrCodeNotBookGroupMember, "only members can comment in this book group")
	}

	if req.ParentCommentID != nil {
		parent, err := s.store.GetComment(ctx, *req.ParentCommentID)
		if err != nil {
			return 0, err
		}
		if parent.BookGroupID != groupID {
			return 0, domain.InvalidArgument("parentCommentId", *req.ParentCommentID)
		}
		if !parent.IsRoot() {
			return 0, domain.BusinessRule(domain.ErrCodeCommentNotParent, "replies can only be added to a root comment")
		}
	}

	contents := sanitize.Text(req.Contents)
	if contents == "" {
		return 0, domain.InvalidArgument("contents", req.Contents)
	}

	now := s.now()
	comment := &domain.GroupComment{
		BookGroupID:     groupID,
		UserID:          userID,
		ParentCommentID: req.ParentCommentID,
		Contents:        contents,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return 0, err
	}
	return comment.ID, nil
}

// List pages through the comments of a group, newest first by default.
func (s *CommentService) List(ctx context.Context, groupID int64, page domain.PageRequest) (*domain.CommentResponses, error) {
	if _, err := s.store.GetBookGroup(ctx, groupID); err != nil {
		return nil, err
	}
	page, err := page.Normalize()
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListComments(ctx, groupID, page)
	if err != nil {
		return nil, err
	}
	slice := query.NewSlice(rows, page.PageSize, page.CursorID)
	return &domain.CommentResponses{SliceMeta: slice.Meta(), Comments: slice.Items()}, nil
}

// Delete removes a comment and its replies. Only the writer may delete it.
func (s *CommentService) Delete(ctx context.Context, userID, groupID, commentID int64) error {
	return withTx(ctx, s.store, func(tx storage.Transaction) error {
		comment, err := tx.GetComment(ctx, commentID)
		if err != nil {
			return err
		}
		if comment.BookGroupID != groupID {
			return domain.NotFound("comment")
		}
		if comment.UserID != userID {
			return domain.Unauthorized(domain.ErrCodeCommentWriterNotMatched, "only the writer can delete this comment")
		}
		return tx.DeleteComment(ctx, commentID)
	})
}
