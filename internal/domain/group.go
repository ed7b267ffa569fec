package domain

import (
	"strings"
	"time"
)

// BookGroup is a discussion group reading exactly one book.
// OwnerID is a weak reference to a user; the owner is also the first member.
type BookGroup struct {
	ID             int64     `json:"bookGroupId" db:"id"`
	Title          string    `json:"title" db:"title"`
	Introduce      string    `json:"introduce" db:"introduce"`
	OwnerID        int64     `json:"ownerId" db:"owner_id"`
	BookID         int64     `json:"bookId" db:"book_id"`
	StartDate      Date      `json:"startDate" db:"start_date"`
	EndDate        Date      `json:"endDate" db:"end_date"`
	MaxMemberCount int       `json:"maxMemberCount" db:"max_member_count"`
	HasJoinPasswd  bool      `json:"hasJoinPasswd" db:"has_join_passwd"`
	JoinPasswd     string    `json:"-" db:"join_passwd"` // bcrypt hash
	JoinQuestion   string    `json:"joinQuestion" db:"join_question"`
	IsPublic       bool      `json:"isPublic" db:"is_public"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// IsOwner reports whether userID owns the group.
func (g *BookGroup) IsOwner(userID int64) bool {
	return g.OwnerID == userID
}

// GroupMember links a user to a group.
type GroupMember struct {
	ID          int64     `json:"id" db:"id"`
	BookGroupID int64     `json:"bookGroupId" db:"book_group_id"`
	UserID      int64     `json:"userId" db:"user_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// GroupSearchOption scopes a keyword search to group titles, book titles or both.
type GroupSearchOption string

const (
	SearchNone      GroupSearchOption = ""
	SearchBookName  GroupSearchOption = "BOOK_NAME"
	SearchGroupName GroupSearchOption = "GROUP_NAME"
)

// ParseGroupSearchOption parses the option query parameter.
func ParseGroupSearchOption(s string) (GroupSearchOption, error) {
	switch opt := GroupSearchOption(strings.ToUpper(strings.TrimSpace(s))); opt {
	case SearchNone, SearchBookName, SearchGroupName:
		return opt, nil
	default:
		return "", InvalidArgument("option", s)
	}
}

// BookGroupCreateRequest is the body of POST /api/book-groups.
type BookGroupCreateRequest struct {
	Book           BookCreateRequest `json:"book"`
	Title          string            `json:"title"`
	StartDate      Date              `json:"startDate"`
	EndDate        Date              `json:"endDate"`
	MaxMemberCount int               `json:"maxMemberCount"`
	Introduce      string            `json:"introduce"`
	IsPublic       bool              `json:"isPublic"`
	JoinQuestion   string            `json:"joinQuestion,omitempty"`
	JoinPassword   string            `json:"joinPassword,omitempty"`
}

// BookGroupUpdateRequest is the body of PUT /api/book-groups/{groupId}.
// Nil fields are left unchanged.
type BookGroupUpdateRequest struct {
	Title          *string `json:"title,omitempty"`
	Introduce      *string `json:"introduce,omitempty"`
	EndDate        *Date   `json:"endDate,omitempty"`
	MaxMemberCount *int    `json:"maxMemberCount,omitempty"`
	IsPublic       *bool   `json:"isPublic,omitempty"`
}

// BookGroupJoinRequest is the body of POST /api/book-groups/{groupId}/join.
type BookGroupJoinRequest struct {
	JoinPassword string `json:"joinPassword,omitempty"`
}

// GroupBookSummary is the nested book object of a list item.
type GroupBookSummary struct {
	BookID   int64  `json:"bookId"`
	ImageURL string `json:"imageUrl"`
}

// GroupOwnerSummary is the nested owner object of a list item. The owner
// profile is left-joined, so every field may be empty.
type GroupOwnerSummary struct {
	OwnerID         *int64 `json:"ownerId"`
	OwnerProfileURL string `json:"ownerProfileUrl"`
	OwnerNickname   string `json:"ownerNickname"`
}

// BookGroupResponse is one row of a group listing.
type BookGroupResponse struct {
	BookGroupID    int64             `json:"bookGroupId"`
	Title          string            `json:"title"`
	Introduce      string            `json:"introduce"`
	StartDate      Date              `json:"startDate"`
	EndDate        Date              `json:"endDate"`
	MaxMemberCount int               `json:"maxMemberCount"`
	HasJoinPasswd  bool              `json:"hasJoinPasswd"`
	IsPublic       bool              `json:"isPublic"`
	MemberCount    int64             `json:"memberCount"`
	CommentCount   int64             `json:"commentCount"`
	Book           GroupBookSummary  `json:"book"`
	Owner          GroupOwnerSummary `json:"owner"`
}

// BookGroupResponses is a page of group listings.
type BookGroupResponses struct {
	SliceMeta
	BookGroups []BookGroupResponse `json:"bookGroups"`
}

// BookGroupDetailResponse is the single-group view, including the derived
// authorization facts for the requester.
type BookGroupDetailResponse struct {
	BookGroupID        int64     `json:"bookGroupId"`
	Title              string    `json:"title"`
	Introduce          string    `json:"introduce"`
	StartDate          Date      `json:"startDate"`
	EndDate            Date      `json:"endDate"`
	HasJoinPasswd      bool      `json:"hasJoinPasswd"`
	JoinQuestion       string    `json:"joinQuestion"`
	IsPublic           bool      `json:"isPublic"`
	MaxMemberCount     int       `json:"maxMemberCount"`
	CurrentMemberCount int64     `json:"currentMemberCount"`
	CommentCount       int64     `json:"commentCount"`
	OwnerID            int64     `json:"ownerId"`
	BookID             int64     `json:"bookId"`
	BookTitle          string    `json:"bookTitle"`
	BookImageURL       string    `json:"bookImageUrl"`
	IsOwner            bool      `json:"isOwner"`
	IsGroupMember      bool      `json:"isGroupMember"`
	UpdatedAt          time.Time `json:"-"`
}
