package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/query"
	sqlstore "github.com/dadok/readingclub/internal/storage/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type fixture struct {
	*Services
	store *sqlstore.Store
	clock *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlstore.New(sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jobs, err := LoadJobTable(context.Background(), store)
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return &fixture{
		Services: New(store, jobs, zap.NewNop(), clock.Now),
		store:    store,
		clock:    clock,
	}
}

func (f *fixture) user(t *testing.T, nickname string) int64 {
	t.Helper()
	u := &domain.User{
		Name:         nickname,
		Nickname:     nickname,
		Email:        nickname + "@example.com",
		ProfileImage: "https://img.example.com/" + nickname,
		AuthProvider: "KAKAO",
	}
	require.NoError(t, f.Users.Create(context.Background(), u))
	return u.ID
}

func bookRequest(isbn string) domain.BookCreateRequest {
	return domain.BookCreateRequest{
		Title:       "Effective Java",
		Author:      "Joshua Bloch",
		ISBN:        isbn,
		Contents:    "Best practices for the Java platform",
		ImageURL:    "https://img.example.com/" + isbn,
		Publisher:   "Addison-Wesley",
		APIProvider: "KAKAO",
	}
}

func groupRequest(title string, max int) domain.BookGroupCreateRequest {
	return domain.BookGroupCreateRequest{
		Book:           bookRequest("9780134685991"),
		Title:          title,
		StartDate:      domain.NewDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:        domain.NewDate(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
		MaxMemberCount: max,
		Introduce:      "We read one chapter a week",
		IsPublic:       true,
	}
}

func (f *fixture) group(t *testing.T, ownerID int64, title string, max int) int64 {
	t.Helper()
	id, err := f.Groups.Create(context.Background(), ownerID, groupRequest(title, max))
	require.NoError(t, err)
	return id
}

func assertCode(t *testing.T, err error, kind error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}

func firstPage(size int) SearchRequest {
	return SearchRequest{domain.PageRequest{PageSize: size}}
}

func TestMembershipScopedListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	member := f.user(t, "member")
	stranger := f.user(t, "stranger")
	groupID := f.group(t, owner, "Java study", 5)
	require.NoError(t, f.Groups.Join(ctx, member, groupID, domain.BookGroupJoinRequest{}))

	mine, err := f.Groups.FindAllByUser(ctx, firstPage(10), member)
	require.NoError(t, err)
	require.Len(t, mine.BookGroups, 1)
	assert.Equal(t, groupID, mine.BookGroups[0].BookGroupID)
	assert.Equal(t, int64(2), mine.BookGroups[0].MemberCount)
	assert.True(t, mine.IsFirst)
	assert.False(t, mine.HasNext)

	theirs, err := f.Groups.FindAllByUser(ctx, firstPage(10), stranger)
	require.NoError(t, err)
	assert.Empty(t, theirs.BookGroups)
	assert.True(t, theirs.IsEmpty)
	assert.True(t, theirs.IsLast)

	_, err = f.Groups.FindAllByUser(ctx, firstPage(10), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	book, err := f.Books.FindByISBN(ctx, "9780134685991")
	require.NoError(t, err)
	assert.Equal(t, mine.BookGroups[0].Book.BookID, book.ID)
}

func TestDetailFlags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	member := f.user(t, "member")
	stranger := f.user(t, "stranger")
	groupID := f.group(t, owner, "Java study", 5)
	require.NoError(t, f.Groups.Join(ctx, member, groupID, domain.BookGroupJoinRequest{}))

	tests := []struct {
		name       string
		requester  *int64
		wantOwner  bool
		wantMember bool
	}{
		{"anonymous", nil, false, false},
		{"owner", &owner, true, true},
		{"member", &member, false, true},
		{"stranger", &stranger, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := f.Groups.FindGroup(ctx, tt.requester, groupID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, detail.IsOwner)
			assert.Equal(t, tt.wantMember, detail.IsGroupMember)
			assert.Equal(t, int64(2), detail.CurrentMemberCount)
			assert.Equal(t, "Effective Java", detail.BookTitle)
		})
	}

	_, err := f.Groups.FindGroup(ctx, nil, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPagesMatchSingleQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	for i := 0; i < 5; i++ {
		f.group(t, owner, fmt.Sprintf("group %d", i), 5)
	}

	whole, err := f.Groups.FindAll(ctx, firstPage(4))
	require.NoError(t, err)
	require.Len(t, whole.BookGroups, 4)
	assert.True(t, whole.HasNext)

	page1, err := f.Groups.FindAll(ctx, firstPage(2))
	require.NoError(t, err)
	require.Len(t, page1.BookGroups, 2)
	assert.True(t, page1.IsFirst)

	cursor := page1.BookGroups[1].BookGroupID
	page2, err := f.Groups.FindAll(ctx, SearchRequest{domain.PageRequest{PageSize: 2, CursorID: &cursor}})
	require.NoError(t, err)
	require.Len(t, page2.BookGroups, 2)
	assert.False(t, page2.IsFirst)

	combined := append(page1.BookGroups, page2.BookGroups...)
	assert.Equal(t, whole.BookGroups, combined)

	_, err = f.Groups.FindAll(ctx, firstPage(domain.MaxPageSize+1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestFindByQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	f.group(t, owner, "Effective readers", 5)
	f.group(t, owner, "Weekend club", 5)

	byGroup, err := f.Groups.FindByQuery(ctx, QueryRequest{Query: "Effective", Option: domain.SearchGroupName})
	require.NoError(t, err)
	require.Len(t, byGroup.BookGroups, 1)
	assert.Equal(t, "Effective readers", byGroup.BookGroups[0].Title)

	both, err := f.Groups.FindByQuery(ctx, QueryRequest{Query: "Effective"})
	require.NoError(t, err)
	assert.Len(t, both.BookGroups, 2)

	_, err = f.Groups.FindByQuery(ctx, QueryRequest{Query: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.Groups.FindByQuery(ctx, QueryRequest{Query: "Go", Option: "AUTHOR"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreateReusesBookAndSanitizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	req := groupRequest("<b>Java</b> study", 5)
	req.Introduce = "Hello<script>alert(1)</script>"
	first, err := f.Groups.Create(ctx, owner, req)
	require.NoError(t, err)
	second := f.group(t, owner, "Second", 5)

	g1, err := f.Groups.Get(ctx, first)
	require.NoError(t, err)
	g2, err := f.Groups.Get(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, g1.BookID, g2.BookID)
	assert.Equal(t, "Java study", g1.Title)
	assert.Equal(t, "Hello", g1.Introduce)
	assert.False(t, g1.HasJoinPasswd)

	_, err = f.Groups.Create(ctx, 999, groupRequest("Ghost", 5))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJoinRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	a := f.user(t, "alice")
	b := f.user(t, "bob")

	t.Run("already member", func(t *testing.T) {
		groupID := f.group(t, owner, "dup", 5)
		err := f.Groups.Join(ctx, owner, groupID, domain.BookGroupJoinRequest{})
		assertCode(t, err, domain.ErrDuplicate, domain.ErrCodeAlreadyBookGroupMember)
	})

	t.Run("capacity", func(t *testing.T) {
		groupID := f.group(t, owner, "small", 2)
		require.NoError(t, f.Groups.Join(ctx, a, groupID, domain.BookGroupJoinRequest{}))
		err := f.Groups.Join(ctx, b, groupID, domain.BookGroupJoinRequest{})
		assertCode(t, err, domain.ErrBusinessRule, domain.ErrCodeExceedLimitMember)
	})

	t.Run("join window", func(t *testing.T) {
		groupID := f.group(t, owner, "expired", 5)
		f.clock.now = time.Date(2026, 4, 2, 0, 0, 1, 0, time.UTC)
		defer func() { f.clock.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }()
		err := f.Groups.Join(ctx, a, groupID, domain.BookGroupJoinRequest{})
		assertCode(t, err, domain.ErrBusinessRule, domain.ErrCodeExpiredJoinGroup)
	})

	t.Run("last day is still open", func(t *testing.T) {
		groupID := f.group(t, owner, "last day", 5)
		f.clock.now = time.Date(2026, 4, 1, 23, 0, 0, 0, time.UTC)
		defer func() { f.clock.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }()
		assert.NoError(t, f.Groups.Join(ctx, a, groupID, domain.BookGroupJoinRequest{}))
	})

	t.Run("password", func(t *testing.T) {
		req := groupRequest("locked", 5)
		req.JoinQuestion = "favourite item?"
		req.JoinPassword = "effective"
		groupID, err := f.Groups.Create(ctx, owner, req)
		require.NoError(t, err)

		g, err := f.Groups.Get(ctx, groupID)
		require.NoError(t, err)
		assert.True(t, g.HasJoinPasswd)
		assert.NotEqual(t, "effective", g.JoinPasswd)

		err = f.Groups.Join(ctx, a, groupID, domain.BookGroupJoinRequest{JoinPassword: "wrong"})
		assertCode(t, err, domain.ErrBusinessRule, domain.ErrCodeNotMatchedPassword)
		assert.NoError(t, f.Groups.Join(ctx, a, groupID, domain.BookGroupJoinRequest{JoinPassword: "effective"}))
	})

	t.Run("unknown user", func(t *testing.T) {
		groupID := f.group(t, owner, "nobody", 5)
		err := f.Groups.Join(ctx, 999, groupID, domain.BookGroupJoinRequest{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUpdateRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	groupID := f.group(t, owner, "Java study", 5)
	require.NoError(t, f.Groups.Join(ctx, a, groupID, domain.BookGroupJoinRequest{}))
	require.NoError(t, f.Groups.Join(ctx, b, groupID, domain.BookGroupJoinRequest{}))

	title := "Renamed"
	_, err := f.Groups.Update(ctx, a, groupID, domain.BookGroupUpdateRequest{Title: &title})
	assertCode(t, err, domain.ErrUnauthorized, domain.ErrCodeBookGroupOwnerNotMatched)

	stale := func(*domain.BookGroup) bool { return false }
	_, err = f.Groups.Update(ctx, a, groupID, domain.BookGroupUpdateRequest{Title: &title}, stale)
	assertCode(t, err, domain.ErrUnauthorized, domain.ErrCodeBookGroupOwnerNotMatched)
	_, err = f.Groups.Update(ctx, owner, groupID, domain.BookGroupUpdateRequest{Title: &title}, stale)
	assertCode(t, err, domain.ErrPreconditionFailed, domain.ErrCodePreconditionFailed)

	two := 2
	_, err = f.Groups.Update(ctx, owner, groupID, domain.BookGroupUpdateRequest{MaxMemberCount: &two})
	assertCode(t, err, domain.ErrBusinessRule, domain.ErrCodeLessThanCurrentMembers)

	early := domain.NewDate(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	_, err = f.Groups.Update(ctx, owner, groupID, domain.BookGroupUpdateRequest{EndDate: &early})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	before, err := f.Groups.Get(ctx, groupID)
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(time.Hour)
	three := 3
	updated, err := f.Groups.Update(ctx, owner, groupID, domain.BookGroupUpdateRequest{Title: &title, MaxMemberCount: &three})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 3, updated.MaxMemberCount)
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt))

	stored, err := f.Groups.Get(ctx, groupID)
	require.NoError(t, err)
	assert.True(t, stored.UpdatedAt.Equal(updated.UpdatedAt))
	assert.Equal(t, "Renamed", stored.Title)
}

func TestDeleteRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	a := f.user(t, "alice")
	groupID := f.group(t, owner, "Java study", 5)
	require.NoError(t, f.Groups.Join(ctx, a, groupID, domain.BookGroupJoinRequest{}))
	_, err := f.Comments.Create(ctx, owner, groupID, domain.CommentCreateRequest{Contents: "welcome"})
	require.NoError(t, err)

	err = f.Groups.Delete(ctx, a, groupID)
	assertCode(t, err, domain.ErrUnauthorized, domain.ErrCodeBookGroupOwnerNotMatched)

	err = f.Groups.Delete(ctx, owner, groupID)
	assertCode(t, err, domain.ErrBusinessRule, domain.ErrCodeCannotDeleteMemberExist)

	require.NoError(t, f.Groups.Leave(ctx, a, groupID))
	require.NoError(t, f.Groups.Delete(ctx, owner, groupID))

	_, err = f.Groups.Get(ctx, groupID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	mine, err := f.Groups.FindAllByUser(ctx, firstPage(10), owner)
	require.NoError(t, err)
	assert.Empty(t, mine.BookGroups)
}

func TestLeaveRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	a := f.user(t, "alice")
	groupID := f.group(t, owner, "Java study", 5)

	err := f.Groups.Leave(ctx, a, groupID)
	assertCode(t, err, domain.ErrUnauthorized, domain.ErrCodeNotBookGroupMember)

	err = f.Groups.Leave(ctx, owner, groupID)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)

	require.NoError(t, f.Groups.Join(ctx, a, groupID, domain.BookGroupJoinRequest{}))
	require.NoError(t, f.Groups.Leave(ctx, a, groupID))

	detail, err := f.Groups.FindGroup(ctx, &a, groupID)
	require.NoError(t, err)
	assert.False(t, detail.IsGroupMember)
	assert.Equal(t, int64(1), detail.CurrentMemberCount)
}

func TestCommentRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	a := f.user(t, "alice")
	stranger := f.user(t, "stranger")
	groupID := f.group(t, owner, "Java study", 5)
	require.NoError(t, f.Groups.Join(ctx, a, groupID, domain.BookGroupJoinRequest{}))

	_, err := f.Comments.Create(ctx, stranger, groupID, domain.CommentCreateRequest{Contents: "hi"})
	assertCode(t, err, domain.ErrUnauthorized, domain.ErrCodeNotBookGroupMember)

	root, err := f.Comments.Create(ctx, owner, groupID, domain.CommentCreateRequest{Contents: "chapter 1?"})
	require.NoError(t, err)
	reply, err := f.Comments.Create(ctx, a, groupID, domain.CommentCreateRequest{Contents: "done", ParentCommentID: &root})
	require.NoError(t, err)

	_, err = f.Comments.Create(ctx, owner, groupID, domain.CommentCreateRequest{Contents: "nested", ParentCommentID: &reply})
	assertCode(t, err, domain.ErrBusinessRule, domain.ErrCodeCommentNotParent)

	_, err = f.Comments.Create(ctx, owner, groupID, domain.CommentCreateRequest{Contents: "<p></p>"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	list, err := f.Comments.List(ctx, groupID, domain.PageRequest{PageSize: 1})
	require.NoError(t, err)
	require.Len(t, list.Comments, 1)
	assert.True(t, list.HasNext)
	assert.Equal(t, reply, list.Comments[0].CommentID)
	assert.Equal(t, "alice", list.Comments[0].Nickname)

	err = f.Comments.Delete(ctx, a, groupID, root)
	assertCode(t, err, domain.ErrUnauthorized, domain.ErrCodeCommentWriterNotMatched)

	require.NoError(t, f.Comments.Delete(ctx, owner, groupID, root))
	list, err = f.Comments.List(ctx, groupID, domain.PageRequest{})
	require.NoError(t, err)
	assert.True(t, list.IsEmpty)

	detail, err := f.Groups.FindGroup(ctx, nil, groupID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), detail.CommentCount)
}

func TestBookshelfRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	other := f.user(t, "other")

	summary, err := f.Bookshelves.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "owner's bookshelf", summary.BookshelfName)
	assert.Empty(t, summary.Books)
	shelfID := summary.BookshelfID

	for i := 0; i < 6; i++ {
		_, err := f.Bookshelves.InsertItem(ctx, owner, shelfID, domain.BookshelfItemCreateRequest{
			Book: bookRequest(fmt.Sprintf("97801346859%02d", i)),
		})
		require.NoError(t, err)
	}

	summary, err = f.Bookshelves.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, summary.Books, domain.SummaryBookCount)
	assert.Equal(t, domain.ItemRead, summary.Books[0].Type)

	_, err = f.Bookshelves.InsertItem(ctx, owner, shelfID, domain.BookshelfItemCreateRequest{Book: bookRequest("9780134685900")})
	assertCode(t, err, domain.ErrDuplicate, domain.ErrCodeAlreadyContainBookshelfItem)

	_, err = f.Bookshelves.InsertItem(ctx, other, shelfID, domain.BookshelfItemCreateRequest{Book: bookRequest("9780134685999")})
	assertCode(t, err, domain.ErrUnauthorized, domain.ErrCodeBookshelfUserNotMatched)

	reading, err := f.Bookshelves.InsertItem(ctx, owner, shelfID, domain.BookshelfItemCreateRequest{
		Book: bookRequest("9780134685998"),
		Type: domain.ItemReading,
	})
	require.NoError(t, err)

	items, err := f.Bookshelves.ListItems(ctx, shelfID, domain.ItemReading, domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, items.Books, 1)
	assert.Equal(t, reading.BookID, items.Books[0].BookID)

	err = f.Bookshelves.RemoveItem(ctx, other, shelfID, reading.BookID)
	assertCode(t, err, domain.ErrUnauthorized, domain.ErrCodeBookshelfUserNotMatched)
	require.NoError(t, f.Bookshelves.RemoveItem(ctx, owner, shelfID, reading.BookID))
	assert.ErrorIs(t, f.Bookshelves.RemoveItem(ctx, owner, shelfID, reading.BookID), domain.ErrNotFound)
}

func TestUserRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.user(t, "alice")
	f.user(t, "bob")

	err := f.Users.ChangeNickname(ctx, a, "bob")
	assertCode(t, err, domain.ErrDuplicate, domain.ErrCodeAlreadyExistsNickname)
	require.NoError(t, f.Users.ChangeNickname(ctx, a, "alicia"))
	assert.ErrorIs(t, f.Users.ChangeNickname(ctx, 999, "ghost"), domain.ErrNotFound)

	jobs := f.Users.Jobs()
	require.NotEmpty(t, jobs)
	job, err := f.Users.RegisterJob(ctx, a, domain.JobRegisterRequest{JobGroup: jobs[0].JobGroup, JobName: jobs[0].JobName})
	require.NoError(t, err)
	assert.Equal(t, jobs[0].JobName, job.JobName)

	_, err = f.Users.RegisterJob(ctx, a, domain.JobRegisterRequest{JobGroup: "ASTRONAUT", JobName: "PILOT"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.Users.RegisterJob(ctx, a, domain.JobRegisterRequest{JobGroup: jobs[0].JobGroup, JobName: "PILOT"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	detail, err := f.Users.Detail(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "alicia", detail.Nickname)
	assert.Equal(t, jobs[0].JobGroup, detail.Job.JobGroup)

	profile, err := f.Users.Profile(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, jobs[0].JobName, profile.Job.JobName)

	err = f.Users.Create(ctx, &domain.User{Nickname: "bob"})
	assertCode(t, err, domain.ErrDuplicate, domain.ErrCodeAlreadyExistsNickname)
}

func TestSliceAssemblyFromRows(t *testing.T) {
	rows := []query.GroupRow{{BookGroupID: 3}, {BookGroupID: 2}, {BookGroupID: 1}}
	slice := query.Map(query.NewSlice(rows, 2, nil), query.GroupRow.ToResponse)
	meta := slice.Meta()
	assert.Equal(t, 2, meta.Count)
	assert.True(t, meta.HasNext)
	assert.False(t, meta.IsLast)
	assert.Equal(t, int64(2), slice.Items()[1].BookGroupID)
}
