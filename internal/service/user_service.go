package service

import (
	"context"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/storage"
	"go.uber.org/zap"
)

// UserService serves the user projections and the few profile edits a
// user can make.
type UserService struct {
	store  storage.Storage
	jobs   *domain.JobTable
	logger *zap.Logger
	now    Clock
}

// NewUserService creates a new UserService.
func NewUserService(store storage.Storage, jobs *domain.JobTable, logger *zap.Logger, clock Clock) *UserService {
	if jobs == nil {
		jobs = domain.NewJobTable(nil)
	}
	return &UserService{store: store, jobs: jobs, logger: logger, now: clock}
}

// GetByID returns the user or NotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// Detail returns the account view of the user, job included.
func (s *UserService) Detail(ctx context.Context, id int64) (*domain.UserDetailResponse, error) {
	return s.store.GetUserDetail(ctx, id)
}

// Profile returns the public view of the user.
func (s *UserService) Profile(ctx context.Context, id int64) (*domain.UserProfileResponse, error) {
	return s.store.GetUserProfile(ctx, id)
}

// ExistsNickname reports whether the nickname is taken.
func (s *UserService) ExistsNickname(ctx context.Context, nickname string) (bool, error) {
	return s.store.ExistsNickname(ctx, nickname)
}

// ChangeNickname renames the user. Nicknames are unique.
func (s *UserService) ChangeNickname(ctx context.Context, id int64, nickname string) error {
	if _, err := s.store.GetUser(ctx, id); err != nil {
		return err
	}
	exists, err := s.store.ExistsNickname(ctx, nickname)
	if err != nil {
		return err
	}
	if exists {
		return domain.Duplicate(domain.ErrCodeAlreadyExistsNickname, "nickname is already in use")
	}
	return s.store.UpdateUserNickname(ctx, id, nickname)
}

// RegisterJob sets the user's job from a (group, name) pair.
func (s *UserService) RegisterJob(ctx context.Context, id int64, req domain.JobRegisterRequest) (*domain.UserJobResponse, error) {
	if !s.jobs.HasGroup(req.JobGroup) {
		return nil, domain.InvalidArgument("jobGroup", req.JobGroup)
	}
	job, ok := s.jobs.Find(req.JobGroup, req.JobName)
	if !ok {
		return nil, domain.InvalidArgument("jobName", req.JobName)
	}
	if err := s.store.UpdateUserJob(ctx, id, job.ID); err != nil {
		return nil, err
	}
	return &domain.UserJobResponse{JobGroup: job.JobGroup, JobName: job.JobName, SortOrder: job.SortOrder}, nil
}

// Jobs returns the job table.
func (s *UserService) Jobs() []domain.Job {
	return s.jobs.All()
}

// Create registers a user together with the user's bookshelf.
func (s *UserService) Create(ctx context.Context, user *domain.User) error {
	now := s.now()
	user.CreatedAt = now
	err := withTx(ctx, s.store, func(tx storage.Transaction) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.CreateBookshelf(ctx, &domain.Bookshelf{
			UserID:    user.ID,
			Name:      user.Nickname + "'s bookshelf",
			IsPublic:  true,
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}
	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("nickname", user.Nickname))
	return nil
}
