package domain

import "time"

// GroupComment is a comment inside a book group. ParentCommentID points at a
// root comment; replies to replies are rejected.
type GroupComment struct {
	ID              int64     `json:"commentId" db:"id"`
	BookGroupID     int64     `json:"bookGroupId" db:"book_group_id"`
	UserID          int64     `json:"userId" db:"user_id"`
	ParentCommentID *int64    `json:"parentCommentId" db:"parent_comment_id"`
	Contents        string    `json:"contents" db:"contents"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// IsRoot reports whether the comment may receive replies.
func (c *GroupComment) IsRoot() bool {
	return c.ParentCommentID == nil
}

// CommentCreateRequest is the body of POST /api/book-groups/{groupId}/comments.
type CommentCreateRequest struct {
	Contents        string `json:"contents"`
	ParentCommentID *int64 `json:"parentCommentId,omitempty"`
}

// CommentResponse is one comment with its writer's profile.
type CommentResponse struct {
	CommentID       int64     `json:"commentId"`
	Contents        string    `json:"contents"`
	BookGroupID     int64     `json:"bookGroupId"`
	ParentCommentID *int64    `json:"parentCommentId"`
	UserID          int64     `json:"userId"`
	UserProfileURL  string    `json:"userProfileImage"`
	Nickname        string    `json:"nickname"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CommentResponses is a page of comments.
type CommentResponses struct {
	SliceMeta
	Comments []CommentResponse `json:"comments"`
}
