package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/query"
	"github.com/dadok/readingclub/internal/sanitize"
	"github.com/dadok/readingclub/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SearchRequest pages through a group listing.
type SearchRequest struct {
	domain.PageRequest
}

// QueryRequest is a keyword search over group and book titles.
type QueryRequest struct {
	domain.PageRequest
	Query  string
	Option domain.GroupSearchOption
}

// BookGroupService implements the book group listings, the detail view and
// the membership lifecycle.
type BookGroupService struct {
	store  storage.Storage
	books  *BookService
	users  *UserService
	logger *zap.Logger
	now    Clock
}

// NewBookGroupService creates a new BookGroupService.
func NewBookGroupService(store storage.Storage, books *BookService, users *UserService, logger *zap.Logger, clock Clock) *BookGroupService {
	return &BookGroupService{store: store, books: books, users: users, logger: logger, now: clock}
}

// ============================================
// Queries
// ============================================

func (s *BookGroupService) list(ctx context.Context, filter storage.GroupFilter, page domain.PageRequest) (*domain.BookGroupResponses, error) {
	page, err := page.Normalize()
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListBookGroups(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	slice := query.Map(query.NewSlice(rows, page.PageSize, page.CursorID), query.GroupRow.ToResponse)
	return &domain.BookGroupResponses{SliceMeta: slice.Meta(), BookGroups: slice.Items()}, nil
}

// FindAll lists every group.
func (s *BookGroupService) FindAll(ctx context.Context, req SearchRequest) (*domain.BookGroupResponses, error) {
	return s.list(ctx, storage.GroupFilter{}, req.PageRequest)
}

// FindAllByUser lists the groups userID is a member of. The counts still
// cover every member of each group.
func (s *BookGroupService) FindAllByUser(ctx context.Context, req SearchRequest, userID int64) (*domain.BookGroupResponses, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.list(ctx, storage.GroupFilter{Where: query.MemberOf(userID)}, req.PageRequest)
}

// FindByQuery searches group titles, book titles or both by prefix.
func (s *BookGroupService) FindByQuery(ctx context.Context, req QueryRequest) (*domain.BookGroupResponses, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, domain.InvalidArgument("query", req.Query)
	}
	pred, err := query.SearchPredicate(req.Option, req.Query)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, storage.GroupFilter{Where: pred, Distinct: true}, req.PageRequest)
}

// FindGroup returns the detail view. requesterID is nil for anonymous
// callers, who are neither owner nor member.
func (s *BookGroupService) FindGroup(ctx context.Context, requesterID *int64, groupID int64) (*domain.BookGroupDetailResponse, error) {
	row, err := s.store.GetBookGroupDetail(ctx, groupID)
	if err != nil {
		return nil, err
	}
	resp := row.ToResponse()
	if requesterID == nil {
		return &resp, nil
	}
	resp.IsOwner = row.OwnerID == *requesterID
	resp.IsGroupMember, err = s.store.IsGroupMember(ctx, groupID, *requesterID)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns the stored group.
func (s *BookGroupService) Get(ctx context.Context, groupID int64) (*domain.BookGroup, error) {
	return s.store.GetBookGroup(ctx, groupID)
}

// ============================================
// Commands
// ============================================

// Create registers the book if needed, creates the group and makes the
// owner its first member, all in one transaction.
func (s *BookGroupService) Create(ctx context.Context, ownerID int64, req domain.BookGroupCreateRequest) (int64, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return 0, err
	}

	var passwdHash string
	if req.JoinPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.JoinPassword), bcrypt.DefaultCost)
		if err != nil {
			return 0, fmt.Errorf("hash join password: %w", err)
		}
		passwdHash = string(hash)
	}

	now := s.now()
	group := &domain.BookGroup{
		Title:          sanitize.Text(req.Title),
		Introduce:      sanitize.Text(req.Introduce),
		OwnerID:        ownerID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		MaxMemberCount: req.MaxMemberCount,
		HasJoinPasswd:  passwdHash != "",
		JoinPasswd:     passwdHash,
		JoinQuestion:   sanitize.Text(req.JoinQuestion),
		IsPublic:       req.IsPublic,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if group.Title == "" {
		return 0, domain.InvalidArgument("title", req.Title)
	}
	if group.Introduce == "" {
		return 0, domain.InvalidArgument("introduce", req.Introduce)
	}

	err := withTx(ctx, s.store, func(tx storage.Transaction) error {
		book, err := s.books.findOrCreate(ctx, tx, req.Book)
		if err != nil {
			return err
		}
		group.BookID = book.ID
		if err := tx.CreateBookGroup(ctx, group); err != nil {
			return err
		}
		return tx.AddGroupMember(ctx, &domain.GroupMember{
			BookGroupID: group.ID,
			UserID:      ownerID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("book group created",
		zap.Int64("book_group_id", group.ID),
		zap.Int64("owner_id", ownerID),
		zap.Int64("book_id", group.BookID))
	return group.ID, nil
}

func ownerOnly(group *domain.BookGroup, userID int64) error {
	if !group.IsOwner(userID) {
		return domain.Unauthorized(domain.ErrCodeBookGroupOwnerNotMatched, "only the owner can manage this book group")
	}
	return nil
}

// Precondition reports whether the stored group may still be modified,
// typically by comparing it with the caller's If-Match header.
type Precondition func(group *domain.BookGroup) bool

// Update edits the fields present in req. Only the owner may edit, and the
// capacity can never drop below the current member count. Preconditions are
// checked after ownership, against the group as read inside the transaction.
func (s *BookGroupService) Update(ctx context.Context, userID, groupID int64, req domain.BookGroupUpdateRequest, preconditions ...Precondition) (*domain.BookGroup, error) {
	var updated *domain.BookGroup
	err := withTx(ctx, s.store, func(tx storage.Transaction) error {
		group, err := tx.GetBookGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if err := ownerOnly(group, userID); err != nil {
			return err
		}
		for _, ok := range preconditions {
			if !ok(group) {
				return domain.PreconditionFailed("resource has been modified")
			}
		}

		if req.Title != nil {
			if group.Title = sanitize.Text(*req.Title); group.Title == "" {
				return domain.InvalidArgument("title", *req.Title)
			}
		}
		if req.Introduce != nil {
			if group.Introduce = sanitize.Text(*req.Introduce); group.Introduce == "" {
				return domain.InvalidArgument("introduce", *req.Introduce)
			}
		}
		if req.EndDate != nil {
			if req.EndDate.Before(group.StartDate.Time) {
				return domain.InvalidArgument("endDate", req.EndDate.String())
			}
			group.EndDate = *req.EndDate
		}
		if req.IsPublic != nil {
			group.IsPublic = *req.IsPublic
		}
		if req.MaxMemberCount != nil {
			current, err := tx.CountGroupMembers(ctx, groupID)
			if err != nil {
				return err
			}
			if *req.MaxMemberCount < current {
				return domain.BusinessRule(domain.ErrCodeLessThanCurrentMembers,
					fmt.Sprintf("max member count cannot be less than the current member count (%d)", current))
			}
			group.MaxMemberCount = *req.MaxMemberCount
		}

		group.UpdatedAt = s.now()
		if err := tx.UpdateBookGroup(ctx, group); err != nil {
			return err
		}
		updated = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a group that has no members besides its owner, together
// with its comments and the owner's membership.
func (s *BookGroupService) Delete(ctx context.Context, userID, groupID int64) error {
	err := withTx(ctx, s.store, func(tx storage.Transaction) error {
		group, err := tx.GetBookGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if err := ownerOnly(group, userID); err != nil {
			return err
		}

		count, err := tx.CountGroupMembers(ctx, groupID)
		if err != nil {
			return err
		}
		ownerIsMember, err := tx.IsGroupMember(ctx, groupID, group.OwnerID)
		if err != nil {
			return err
		}
		others := count
		if ownerIsMember {
			others--
		}
		if others > 0 {
			return domain.BusinessRule(domain.ErrCodeCannotDeleteMemberExist, "a book group with members cannot be deleted")
		}

		if err := tx.DeleteGroupComments(ctx, groupID); err != nil {
			return err
		}
		if ownerIsMember {
			if err := tx.RemoveGroupMember(ctx, groupID, group.OwnerID); err != nil {
				return err
			}
		}
		return tx.DeleteBookGroup(ctx, groupID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("book group deleted", zap.Int64("book_group_id", groupID), zap.Int64("owner_id", userID))
	return nil
}

// Join adds userID to the group after checking membership, capacity, the
// join window and the join password, in that order.
func (s *BookGroupService) Join(ctx context.Context, userID, groupID int64, req domain.BookGroupJoinRequest) error {
	return withTx(ctx, s.store, func(tx storage.Transaction) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}
		group, err := tx.GetBookGroup(ctx, groupID)
		if err != nil {
			return err
		}

		member, err := tx.IsGroupMember(ctx, groupID, userID)
		if err != nil {
			return err
		}
		if member {
			return domain.Duplicate(domain.ErrCodeAlreadyBookGroupMember, "already a member of this book group")
		}

		count, err := tx.CountGroupMembers(ctx, groupID)
		if err != nil {
			return err
		}
		if count >= group.MaxMemberCount {
			return domain.BusinessRule(domain.ErrCodeExceedLimitMember, "the book group is full")
		}

		now := s.now()
		if domain.NewDate(now).After(group.EndDate.Time) {
			return domain.BusinessRule(domain.ErrCodeExpiredJoinGroup, "the join period has ended")
		}

		if group.HasJoinPasswd {
			err := bcrypt.CompareHashAndPassword([]byte(group.JoinPasswd), []byte(req.JoinPassword))
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return domain.BusinessRule(domain.ErrCodeNotMatchedPassword, "the join password does not match")
			}
			if err != nil {
				return fmt.Errorf("compare join password: %w", err)
			}
		}

		return tx.AddGroupMember(ctx, &domain.GroupMember{BookGroupID: groupID, UserID: userID, CreatedAt: now})
	})
}

// Leave removes userID from the group. The owner cannot leave; the group
// has to be deleted instead.
func (s *BookGroupService) Leave(ctx context.Context, userID, groupID int64) error {
	return withTx(ctx, s.store, func(tx storage.Transaction) error {
		group, err := tx.GetBookGroup(ctx, groupID)
		if err != nil {
			return err
		}
		member, err := tx.IsGroupMember(ctx, groupID, userID)
		if err != nil {
			return err
		}
		if !member {
			return domain.Unauthorized(domain.ErrCodeNotBookGroupMember, "not a member of this book group")
		}
		if group.IsOwner(userID) {
			return domain.BusinessRule(domain.ErrCodeBadRequest, "the owner cannot leave the book group")
		}
		return tx.RemoveGroupMember(ctx, groupID, userID)
	})
}
