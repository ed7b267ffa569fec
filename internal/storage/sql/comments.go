package sql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/query"
)

// ============================================
// Group Comments
// ============================================

func createComment(ctx context.Context, db dbInterface, comment *domain.GroupComment) error {
	id, err := insertReturningID(ctx, db,
		`INSERT INTO group_comments (book_group_id, user_id, parent_comment_id, contents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		comment.BookGroupID, comment.UserID, comment.ParentCommentID, comment.Contents,
		comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return err
	}
	comment.ID = id
	return nil
}

func (s *Store) CreateComment(ctx context.Context, comment *domain.GroupComment) error {
	return createComment(ctx, s.db, comment)
}

func (t *Tx) CreateComment(ctx context.Context, comment *domain.GroupComment) error {
	return createComment(ctx, t.tx, comment)
}

func getComment(ctx context.Context, db dbInterface, id int64) (*domain.GroupComment, error) {
	var comment domain.GroupComment
	err := db.GetContext(ctx, &comment, db.Rebind(
		`SELECT id, book_group_id, user_id, parent_comment_id, contents, created_at, updated_at
		 FROM group_comments WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("comment")
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (*domain.GroupComment, error) {
	return getComment(ctx, s.db, id)
}

func (t *Tx) GetComment(ctx context.Context, id int64) (*domain.GroupComment, error) {
	return getComment(ctx, t.tx, id)
}

// deleteComment removes a comment and its replies.
func deleteComment(ctx context.Context, db dbInterface, id int64) error {
	if _, err := db.ExecContext(ctx, db.Rebind(
		`DELETE FROM group_comments WHERE parent_comment_id = ?`), id); err != nil {
		return err
	}
	return execAffecting(ctx, db, domain.NotFound("comment"),
		`DELETE FROM group_comments WHERE id = ?`, id)
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	return deleteComment(ctx, s.db, id)
}

func (t *Tx) DeleteComment(ctx context.Context, id int64) error {
	return deleteComment(ctx, t.tx, id)
}

func deleteGroupComments(ctx context.Context, db dbInterface, groupID int64) error {
	_, err := db.ExecContext(ctx, db.Rebind(
		`DELETE FROM group_comments WHERE book_group_id = ?`), groupID)
	return err
}

func (s *Store) DeleteGroupComments(ctx context.Context, groupID int64) error {
	return deleteGroupComments(ctx, s.db, groupID)
}

func (t *Tx) DeleteGroupComments(ctx context.Context, groupID int64) error {
	return deleteGroupComments(ctx, t.tx, groupID)
}

// commentRow is a comment left-joined to its writer's profile.
type commentRow struct {
	ID              int64          `db:"comment_id"`
	BookGroupID     int64          `db:"book_group_id"`
	ParentCommentID sql.NullInt64  `db:"parent_comment_id"`
	UserID          int64          `db:"user_id"`
	Contents        string         `db:"contents"`
	CreatedAt       time.Time      `db:"created_at"`
	ProfileImage    sql.NullString `db:"profile_image"`
	Nickname        sql.NullString `db:"nickname"`
}

func (r commentRow) toResponse() domain.CommentResponse {
	resp := domain.CommentResponse{
		CommentID:      r.ID,
		Contents:       r.Contents,
		BookGroupID:    r.BookGroupID,
		UserID:         r.UserID,
		UserProfileURL: r.ProfileImage.String,
		Nickname:       r.Nickname.String,
		CreatedAt:      r.CreatedAt,
	}
	if r.ParentCommentID.Valid {
		parent := r.ParentCommentID.Int64
		resp.ParentCommentID = &parent
	}
	return resp
}

func listComments(ctx context.Context, db dbInterface, groupID int64, page domain.PageRequest) ([]domain.CommentResponse, error) {
	b := query.Select(
		"c.id AS comment_id",
		"c.book_group_id AS book_group_id",
		"c.parent_comment_id AS parent_comment_id",
		"c.user_id AS user_id",
		"c.contents AS contents",
		"c.created_at AS created_at",
		"u.profile_image AS profile_image",
		"u.nickname AS nickname",
	).
		From("group_comments c").
		LeftJoin("users u", "u.id = c.user_id").
		Where(query.Eq("c.book_group_id", groupID))

	var rows []commentRow
	if err := selectBuilt(ctx, db, &rows, query.Paginate(b, "c.id", page)); err != nil {
		return nil, err
	}
	out := make([]domain.CommentResponse, len(rows))
	for i, r := range rows {
		out[i] = r.toResponse()
	}
	return out, nil
}

func (s *Store) ListComments(ctx context.Context, groupID int64, page domain.PageRequest) ([]domain.CommentResponse, error) {
	return listComments(ctx, s.db, groupID, page)
}

func (t *Tx) ListComments(ctx context.Context, groupID int64, page domain.PageRequest) ([]domain.CommentResponse, error) {
	return listComments(ctx, t.tx, groupID, page)
}
