package sql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/query"
	"github.com/dadok/readingclub/internal/storage"
)

// ============================================
// Book Groups
// ============================================

func createBookGroup(ctx context.Context, db dbInterface, group *domain.BookGroup) error {
	id, err := insertReturningID(ctx, db,
		`INSERT INTO book_groups (title, introduce, owner_id, book_id, start_date, end_date, max_member_count,
		 has_join_passwd, join_passwd, join_question, is_public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.Title, group.Introduce, group.OwnerID, group.BookID, group.StartDate, group.EndDate,
		group.MaxMemberCount, group.HasJoinPasswd, group.JoinPasswd, group.JoinQuestion, group.IsPublic,
		group.CreatedAt, group.UpdatedAt)
	if err != nil {
		return err
	}
	group.ID = id
	return nil
}

func (s *Store) CreateBookGroup(ctx context.Context, group *domain.BookGroup) error {
	return createBookGroup(ctx, s.db, group)
}

func (t *Tx) CreateBookGroup(ctx context.Context, group *domain.BookGroup) error {
	return createBookGroup(ctx, t.tx, group)
}

func getBookGroup(ctx context.Context, db dbInterface, id int64) (*domain.BookGroup, error) {
	var group domain.BookGroup
	err := db.GetContext(ctx, &group, db.Rebind(
		`SELECT id, title, introduce, owner_id, book_id, start_date, end_date, max_member_count,
		 has_join_passwd, join_passwd, join_question, is_public, created_at, updated_at
		 FROM book_groups WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("book group")
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Store) GetBookGroup(ctx context.Context, id int64) (*domain.BookGroup, error) {
	return getBookGroup(ctx, s.db, id)
}

func (t *Tx) GetBookGroup(ctx context.Context, id int64) (*domain.BookGroup, error) {
	return getBookGroup(ctx, t.tx, id)
}

func updateBookGroup(ctx context.Context, db dbInterface, group *domain.BookGroup) error {
	return execAffecting(ctx, db, domain.NotFound("book group"),
		`UPDATE book_groups SET title = ?, introduce = ?, end_date = ?, max_member_count = ?, is_public = ?, updated_at = ?
		 WHERE id = ?`,
		group.Title, group.Introduce, group.EndDate, group.MaxMemberCount, group.IsPublic, group.UpdatedAt, group.ID)
}

func (s *Store) UpdateBookGroup(ctx context.Context, group *domain.BookGroup) error {
	return updateBookGroup(ctx, s.db, group)
}

func (t *Tx) UpdateBookGroup(ctx context.Context, group *domain.BookGroup) error {
	return updateBookGroup(ctx, t.tx, group)
}

// deleteBookGroup removes the group row only. Members and comments must be
// gone first.
func deleteBookGroup(ctx context.Context, db dbInterface, id int64) error {
	return execAffecting(ctx, db, domain.NotFound("book group"),
		`DELETE FROM book_groups WHERE id = ?`, id)
}

func (s *Store) DeleteBookGroup(ctx context.Context, id int64) error {
	return deleteBookGroup(ctx, s.db, id)
}

func (t *Tx) DeleteBookGroup(ctx context.Context, id int64) error {
	return deleteBookGroup(ctx, t.tx, id)
}

func listBookGroups(ctx context.Context, db dbInterface, groups query.GroupProjection, filter storage.GroupFilter, page domain.PageRequest) ([]query.GroupRow, error) {
	b := groups.List().Where(filter.Where)
	if filter.Distinct {
		b.Distinct()
	}
	var rows []query.GroupRow
	if err := selectBuilt(ctx, db, &rows, query.Paginate(b, query.GroupIDColumn, page)); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) ListBookGroups(ctx context.Context, filter storage.GroupFilter, page domain.PageRequest) ([]query.GroupRow, error) {
	return listBookGroups(ctx, s.db, s.groups, filter, page)
}

func (t *Tx) ListBookGroups(ctx context.Context, filter storage.GroupFilter, page domain.PageRequest) ([]query.GroupRow, error) {
	return listBookGroups(ctx, t.tx, t.groups, filter, page)
}

func getBookGroupDetail(ctx context.Context, db dbInterface, groups query.GroupProjection, id int64) (*query.GroupDetailRow, error) {
	var row query.GroupDetailRow
	err := getBuilt(ctx, db, &row, groups.Detail(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("book group")
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) GetBookGroupDetail(ctx context.Context, id int64) (*query.GroupDetailRow, error) {
	return getBookGroupDetail(ctx, s.db, s.groups, id)
}

func (t *Tx) GetBookGroupDetail(ctx context.Context, id int64) (*query.GroupDetailRow, error) {
	return getBookGroupDetail(ctx, t.tx, t.groups, id)
}

// ============================================
// Group Members
// ============================================

func addGroupMember(ctx context.Context, db dbInterface, member *domain.GroupMember) error {
	id, err := insertReturningID(ctx, db,
		`INSERT INTO group_members (book_group_id, user_id, created_at) VALUES (?, ?, ?)`,
		member.BookGroupID, member.UserID, member.CreatedAt)
	if err != nil {
		return wrapUniqueError(err, domain.ErrCodeAlreadyBookGroupMember, "already a member of this book group")
	}
	member.ID = id
	return nil
}

func (s *Store) AddGroupMember(ctx context.Context, member *domain.GroupMember) error {
	return addGroupMember(ctx, s.db, member)
}

func (t *Tx) AddGroupMember(ctx context.Context, member *domain.GroupMember) error {
	return addGroupMember(ctx, t.tx, member)
}

func removeGroupMember(ctx context.Context, db dbInterface, groupID, userID int64) error {
	return execAffecting(ctx, db, domain.NotFound("group member"),
		`DELETE FROM group_members WHERE book_group_id = ? AND user_id = ?`, groupID, userID)
}

func (s *Store) RemoveGroupMember(ctx context.Context, groupID, userID int64) error {
	return removeGroupMember(ctx, s.db, groupID, userID)
}

func (t *Tx) RemoveGroupMember(ctx context.Context, groupID, userID int64) error {
	return removeGroupMember(ctx, t.tx, groupID, userID)
}

func isGroupMember(ctx context.Context, db dbInterface, groupID, userID int64) (bool, error) {
	var one int
	err := getBuilt(ctx, db, &one, query.MemberExists(groupID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) IsGroupMember(ctx context.Context, groupID, userID int64) (bool, error) {
	return isGroupMember(ctx, s.db, groupID, userID)
}

func (t *Tx) IsGroupMember(ctx context.Context, groupID, userID int64) (bool, error) {
	return isGroupMember(ctx, t.tx, groupID, userID)
}

func countGroupMembers(ctx context.Context, db dbInterface, groupID int64) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, db.Rebind(
		`SELECT COUNT(*) FROM group_members WHERE book_group_id = ?`), groupID)
	return count, err
}

func (s *Store) CountGroupMembers(ctx context.Context, groupID int64) (int, error) {
	return countGroupMembers(ctx, s.db, groupID)
}

func (t *Tx) CountGroupMembers(ctx context.Context, groupID int64) (int, error) {
	return countGroupMembers(ctx, t.tx, groupID)
}
