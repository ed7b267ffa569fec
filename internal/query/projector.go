package query

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dadok/readingclub/internal/domain"
)

// CountStrategy decides how member and comment counts are aggregated.
//
// CountJoinDistinct left-joins both child tables and counts distinct ids per
// group; the joins multiply rows (members x comments), which is why the
// distinct count and GROUP BY are mandatory. CountSubquery computes each
// count in its own correlated subquery and never multiplies rows.
type CountStrategy string

const (
	CountJoinDistinct CountStrategy = "join"
	CountSubquery     CountStrategy = "subquery"
)

// ParseCountStrategy parses a configuration value. Empty means join.
func ParseCountStrategy(s string) (CountStrategy, error) {
	switch CountStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CountJoinDistinct:
		return CountJoinDistinct, nil
	case CountSubquery:
		return CountSubquery, nil
	default:
		return "", fmt.Errorf("unknown count strategy %q", s)
	}
}

// GroupIDColumn is the keyset column of every group listing.
const GroupIDColumn = "bg.id"

var groupListColumns = []string{
	"bg.id AS book_group_id",
	"bg.title AS title",
	"bg.introduce AS introduce",
	"bg.start_date AS start_date",
	"bg.end_date AS end_date",
	"bg.max_member_count AS max_member_count",
	"bg.has_join_passwd AS has_join_passwd",
	"bg.is_public AS is_public",
	"b.id AS book_id",
	"b.image_url AS book_image_url",
	"u.id AS owner_id",
	"u.profile_image AS owner_profile_url",
	"u.nickname AS owner_nickname",
}

var groupDetailColumns = []string{
	"bg.id AS book_group_id",
	"bg.title AS title",
	"bg.introduce AS introduce",
	"bg.owner_id AS owner_id",
	"bg.start_date AS start_date",
	"bg.end_date AS end_date",
	"bg.max_member_count AS max_member_count",
	"bg.has_join_passwd AS has_join_passwd",
	"bg.join_question AS join_question",
	"bg.is_public AS is_public",
	"bg.updated_at AS updated_at",
	"b.title AS book_title",
	"b.image_url AS book_image_url",
	"b.id AS book_id",
}

// GroupProjection builds the aggregate selects behind group listings and
// group detail.
type GroupProjection struct {
	Strategy CountStrategy
}

// List selects one flat row per group with its book, owner profile and
// member/comment counts. The book is inner-joined: a group whose book is
// missing is dropped. The owner profile is optional.
func (p GroupProjection) List() *SelectBuilder {
	b := Select(groupListColumns...).
		From("book_groups bg").
		InnerJoin("books b", "b.id = bg.book_id").
		LeftJoin("users u", "u.id = bg.owner_id")
	return p.withCounts(b, "b.id", "u.id")
}

// Detail selects the single-group row for groupID.
func (p GroupProjection) Detail(groupID int64) *SelectBuilder {
	b := Select(groupDetailColumns...).
		From("book_groups bg").
		InnerJoin("books b", "b.id = bg.book_id")
	return p.withCounts(b, "b.id").Where(Eq(GroupIDColumn, groupID))
}

func (p GroupProjection) withCounts(b *SelectBuilder, groupBy ...string) *SelectBuilder {
	if p.Strategy == CountSubquery {
		return b.Columns(
			"(SELECT COUNT(*) FROM group_members mc WHERE mc.book_group_id = bg.id) AS member_count",
			"(SELECT COUNT(*) FROM group_comments cc WHERE cc.book_group_id = bg.id) AS comment_count",
		)
	}
	return b.Columns(
		"COUNT(DISTINCT gm.id) AS member_count",
		"COUNT(DISTINCT gc.id) AS comment_count",
	).
		LeftJoin("group_members gm", "gm.book_group_id = bg.id").
		LeftJoin("group_comments gc", "gc.book_group_id = bg.id").
		GroupBy(append([]string{GroupIDColumn}, groupBy...)...)
}

// MemberOf matches groups that userID is a member of. It is a separate
// EXISTS so the member join used for counting stays unfiltered.
func MemberOf(userID int64) Predicate {
	return Exists(Select("1").
		From("group_members mf").
		Where(Expr("mf.book_group_id = bg.id"), Eq("mf.user_id", userID)))
}

// MemberExists selects a row when userID is a member of groupID.
func MemberExists(groupID, userID int64) *SelectBuilder {
	return Select("1").
		From("group_members").
		Where(Eq("book_group_id", groupID), Eq("user_id", userID)).
		Limit(1)
}

// GroupRow is one row of a group listing as scanned from the database.
type GroupRow struct {
	BookGroupID     int64          `db:"book_group_id"`
	Title           string         `db:"title"`
	Introduce       string         `db:"introduce"`
	StartDate       domain.Date    `db:"start_date"`
	EndDate         domain.Date    `db:"end_date"`
	MaxMemberCount  int            `db:"max_member_count"`
	HasJoinPasswd   bool           `db:"has_join_passwd"`
	IsPublic        bool           `db:"is_public"`
	BookID          int64          `db:"book_id"`
	BookImageURL    string         `db:"book_image_url"`
	OwnerID         sql.NullInt64  `db:"owner_id"`
	OwnerProfileURL sql.NullString `db:"owner_profile_url"`
	OwnerNickname   sql.NullString `db:"owner_nickname"`
	MemberCount     int64          `db:"member_count"`
	CommentCount    int64          `db:"comment_count"`
}

// ToResponse folds the flat row into the nested response shape.
func (r GroupRow) ToResponse() domain.BookGroupResponse {
	owner := domain.GroupOwnerSummary{
		OwnerProfileURL: r.OwnerProfileURL.String,
		OwnerNickname:   r.OwnerNickname.String,
	}
	if r.OwnerID.Valid {
		id := r.OwnerID.Int64
		owner.OwnerID = &id
	}
	return domain.BookGroupResponse{
		BookGroupID:    r.BookGroupID,
		Title:          r.Title,
		Introduce:      r.Introduce,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		MaxMemberCount: r.MaxMemberCount,
		HasJoinPasswd:  r.HasJoinPasswd,
		IsPublic:       r.IsPublic,
		MemberCount:    r.MemberCount,
		CommentCount:   r.CommentCount,
		Book: domain.GroupBookSummary{
			BookID:   r.BookID,
			ImageURL: r.BookImageURL,
		},
		Owner: owner,
	}
}

// GroupDetailRow is the scanned single-group row.
type GroupDetailRow struct {
	BookGroupID    int64       `db:"book_group_id"`
	Title          string      `db:"title"`
	Introduce      string      `db:"introduce"`
	OwnerID        int64       `db:"owner_id"`
	StartDate      domain.Date `db:"start_date"`
	EndDate        domain.Date `db:"end_date"`
	MaxMemberCount int         `db:"max_member_count"`
	HasJoinPasswd  bool        `db:"has_join_passwd"`
	JoinQuestion   string      `db:"join_question"`
	IsPublic       bool        `db:"is_public"`
	UpdatedAt      time.Time   `db:"updated_at"`
	BookTitle      string      `db:"book_title"`
	BookImageURL   string      `db:"book_image_url"`
	BookID         int64       `db:"book_id"`
	MemberCount    int64       `db:"member_count"`
	CommentCount   int64       `db:"comment_count"`
}

// ToResponse maps the row; the requester flags are filled by the caller.
func (r GroupDetailRow) ToResponse() domain.BookGroupDetailResponse {
	return domain.BookGroupDetailResponse{
		BookGroupID:        r.BookGroupID,
		Title:              r.Title,
		Introduce:          r.Introduce,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		HasJoinPasswd:      r.HasJoinPasswd,
		JoinQuestion:       r.JoinQuestion,
		IsPublic:           r.IsPublic,
		MaxMemberCount:     r.MaxMemberCount,
		CurrentMemberCount: r.MemberCount,
		CommentCount:       r.CommentCount,
		OwnerID:            r.OwnerID,
		BookID:             r.BookID,
		BookTitle:          r.BookTitle,
		BookImageURL:       r.BookImageURL,
		UpdatedAt:          r.UpdatedAt,
	}
}
