package query

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCountStrategy(t *testing.T) {
	s, err := ParseCountStrategy("")
	require.NoError(t, err)
	assert.Equal(t, CountJoinDistinct, s)

	s, err = ParseCountStrategy("Subquery")
	require.NoError(t, err)
	assert.Equal(t, CountSubquery, s)

	_, err = ParseCountStrategy("naive")
	assert.Error(t, err)
}

func TestGroupListJoinDistinct(t *testing.T) {
	sql, _ := GroupProjection{Strategy: CountJoinDistinct}.List().ToSQL()

	assert.Contains(t, sql, "FROM book_groups bg INNER JOIN books b ON b.id = bg.book_id LEFT JOIN users u ON u.id = bg.owner_id")
	assert.Contains(t, sql, "LEFT JOIN group_members gm ON gm.book_group_id = bg.id")
	assert.Contains(t, sql, "LEFT JOIN group_comments gc ON gc.book_group_id = bg.id")
	assert.Contains(t, sql, "COUNT(DISTINCT gm.id) AS member_count")
	assert.Contains(t, sql, "COUNT(DISTINCT gc.id) AS comment_count")
	assert.Contains(t, sql, "GROUP BY bg.id, b.id, u.id")
}

func TestGroupListSubquery(t *testing.T) {
	sql, _ := GroupProjection{Strategy: CountSubquery}.List().ToSQL()

	assert.NotContains(t, sql, "group_members gm")
	assert.NotContains(t, sql, "GROUP BY")
	assert.Contains(t, sql, "(SELECT COUNT(*) FROM group_members mc WHERE mc.book_group_id = bg.id) AS member_count")
}

func TestGroupSearchStatement(t *testing.T) {
	pred, err := SearchPredicate(domain.SearchNone, "Go")
	require.NoError(t, err)

	cursor := int64(40)
	page := domain.PageRequest{PageSize: 10, CursorID: &cursor, Direction: domain.SortDesc}
	stmt, args := Paginate(GroupProjection{}.List().Distinct().Where(pred), GroupIDColumn, page).ToSQL()

	assert.True(t, strings.HasPrefix(stmt, "SELECT DISTINCT bg.id AS book_group_id"))
	assert.Contains(t, stmt, `WHERE ((bg.title LIKE ? ESCAPE '\' OR b.title LIKE ? ESCAPE '\') AND bg.id < ?)`)
	assert.True(t, strings.HasSuffix(stmt, "GROUP BY bg.id, b.id, u.id ORDER BY bg.id DESC LIMIT 11"))
	assert.Equal(t, []any{"Go%", "Go%", int64(40)}, args)
}

func TestMemberOf(t *testing.T) {
	stmt, args := MemberOf(3).SQL()
	assert.Equal(t, "EXISTS (SELECT 1 FROM group_members mf WHERE (mf.book_group_id = bg.id AND mf.user_id = ?))", stmt)
	assert.Equal(t, []any{int64(3)}, args)
}

func TestGroupDetailStatement(t *testing.T) {
	stmt, args := GroupProjection{}.Detail(9).ToSQL()
	assert.Contains(t, stmt, "INNER JOIN books b ON b.id = bg.book_id")
	assert.Contains(t, stmt, "WHERE bg.id = ?")
	assert.Contains(t, stmt, "GROUP BY bg.id, b.id")
	assert.Equal(t, []any{int64(9)}, args)
}

func TestGroupRowToResponse(t *testing.T) {
	row := GroupRow{
		BookGroupID:     5,
		Title:           "JPA study",
		MaxMemberCount:  6,
		BookID:          11,
		BookImageURL:    "http://img",
		OwnerID:         sql.NullInt64{Int64: 2, Valid: true},
		OwnerNickname:   sql.NullString{String: "owner", Valid: true},
		OwnerProfileURL: sql.NullString{String: "http://profile", Valid: true},
		MemberCount:     3,
		CommentCount:    2,
	}

	resp := row.ToResponse()
	assert.Equal(t, int64(5), resp.BookGroupID)
	assert.Equal(t, int64(11), resp.Book.BookID)
	assert.Equal(t, "http://img", resp.Book.ImageURL)
	require.NotNil(t, resp.Owner.OwnerID)
	assert.Equal(t, int64(2), *resp.Owner.OwnerID)
	assert.Equal(t, "owner", resp.Owner.OwnerNickname)
	assert.Equal(t, int64(3), resp.MemberCount)
	assert.Equal(t, int64(2), resp.CommentCount)

	row.OwnerID = sql.NullInt64{}
	assert.Nil(t, row.ToResponse().Owner.OwnerID)
}
