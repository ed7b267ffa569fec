package sql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/query"
)

// ============================================
// Users
// ============================================

func createUser(ctx context.Context, db dbInterface, user *domain.User) error {
	id, err := insertReturningID(ctx, db,
		`INSERT INTO users (name, nickname, oauth_nickname, email, profile_image, gender, auth_provider, job_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Name, user.Nickname, user.OAuthNickname, user.Email, user.ProfileImage,
		user.Gender, user.AuthProvider, user.JobID, user.CreatedAt)
	if err != nil {
		return wrapUniqueError(err, domain.ErrCodeAlreadyExistsNickname, "nickname already exists")
	}
	user.ID = id
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	return createUser(ctx, s.db, user)
}

func (t *Tx) CreateUser(ctx context.Context, user *domain.User) error {
	return createUser(ctx, t.tx, user)
}

func getUser(ctx context.Context, db dbInterface, id int64) (*domain.User, error) {
	var user domain.User
	err := db.GetContext(ctx, &user, db.Rebind(
		`SELECT id, name, nickname, oauth_nickname, email, profile_image, gender, auth_provider, job_id, created_at
		 FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return getUser(ctx, s.db, id)
}

func (t *Tx) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return getUser(ctx, t.tx, id)
}

// userRow is a user left-joined to its job.
type userRow struct {
	ID            int64          `db:"id"`
	Name          string         `db:"name"`
	Nickname      string         `db:"nickname"`
	OAuthNickname string         `db:"oauth_nickname"`
	Email         string         `db:"email"`
	ProfileImage  string         `db:"profile_image"`
	Gender        string         `db:"gender"`
	AuthProvider  string         `db:"auth_provider"`
	JobGroup      sql.NullString `db:"job_group"`
	JobName       sql.NullString `db:"job_name"`
	SortOrder     sql.NullInt64  `db:"sort_order"`
}

func (r userRow) job() domain.UserJobResponse {
	return domain.UserJobResponse{
		JobGroup:  r.JobGroup.String,
		JobName:   r.JobName.String,
		SortOrder: int(r.SortOrder.Int64),
	}
}

func userWithJob(id int64) *query.SelectBuilder {
	return query.Select(
		"u.id AS id",
		"u.name AS name",
		"u.nickname AS nickname",
		"u.oauth_nickname AS oauth_nickname",
		"u.email AS email",
		"u.profile_image AS profile_image",
		"u.gender AS gender",
		"u.auth_provider AS auth_provider",
		"j.job_group AS job_group",
		"j.job_name AS job_name",
		"j.sort_order AS sort_order",
	).
		From("users u").
		LeftJoin("jobs j", "j.id = u.job_id").
		Where(query.Eq("u.id", id))
}

func getUserRow(ctx context.Context, db dbInterface, id int64) (*userRow, error) {
	var row userRow
	err := getBuilt(ctx, db, &row, userWithJob(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func getUserDetail(ctx context.Context, db dbInterface, id int64) (*domain.UserDetailResponse, error) {
	row, err := getUserRow(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return &domain.UserDetailResponse{
		UserID:        row.ID,
		Name:          row.Name,
		Nickname:      row.Nickname,
		OAuthNickname: row.OAuthNickname,
		Email:         row.Email,
		ProfileImage:  row.ProfileImage,
		Gender:        row.Gender,
		AuthProvider:  row.AuthProvider,
		Job:           row.job(),
	}, nil
}

func (s *Store) GetUserDetail(ctx context.Context, id int64) (*domain.UserDetailResponse, error) {
	return getUserDetail(ctx, s.db, id)
}

func (t *Tx) GetUserDetail(ctx context.Context, id int64) (*domain.UserDetailResponse, error) {
	return getUserDetail(ctx, t.tx, id)
}

func getUserProfile(ctx context.Context, db dbInterface, id int64) (*domain.UserProfileResponse, error) {
	row, err := getUserRow(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return &domain.UserProfileResponse{
		UserID:       row.ID,
		Nickname:     row.Nickname,
		ProfileImage: row.ProfileImage,
		Gender:       row.Gender,
		Job:          row.job(),
	}, nil
}

func (s *Store) GetUserProfile(ctx context.Context, id int64) (*domain.UserProfileResponse, error) {
	return getUserProfile(ctx, s.db, id)
}

func (t *Tx) GetUserProfile(ctx context.Context, id int64) (*domain.UserProfileResponse, error) {
	return getUserProfile(ctx, t.tx, id)
}

func existsNickname(ctx context.Context, db dbInterface, nickname string) (bool, error) {
	var one int
	err := getBuilt(ctx, db, &one,
		query.Select("1").From("users").Where(query.Eq("nickname", nickname)).Limit(1))
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ExistsNickname(ctx context.Context, nickname string) (bool, error) {
	return existsNickname(ctx, s.db, nickname)
}

func (t *Tx) ExistsNickname(ctx context.Context, nickname string) (bool, error) {
	return existsNickname(ctx, t.tx, nickname)
}

func updateUserNickname(ctx context.Context, db dbInterface, id int64, nickname string) error {
	err := execAffecting(ctx, db, domain.NotFound("user"),
		`UPDATE users SET nickname = ? WHERE id = ?`, nickname, id)
	return wrapUniqueError(err, domain.ErrCodeAlreadyExistsNickname, "nickname already exists")
}

func (s *Store) UpdateUserNickname(ctx context.Context, id int64, nickname string) error {
	return updateUserNickname(ctx, s.db, id, nickname)
}

func (t *Tx) UpdateUserNickname(ctx context.Context, id int64, nickname string) error {
	return updateUserNickname(ctx, t.tx, id, nickname)
}

func updateUserJob(ctx context.Context, db dbInterface, id int64, jobID int64) error {
	return execAffecting(ctx, db, domain.NotFound("user"),
		`UPDATE users SET job_id = ? WHERE id = ?`, jobID, id)
}

func (s *Store) UpdateUserJob(ctx context.Context, id int64, jobID int64) error {
	return updateUserJob(ctx, s.db, id, jobID)
}

func (t *Tx) UpdateUserJob(ctx context.Context, id int64, jobID int64) error {
	return updateUserJob(ctx, t.tx, id, jobID)
}

// ============================================
// Jobs
// ============================================

func listJobs(ctx context.Context, db dbInterface) ([]domain.Job, error) {
	var jobs []domain.Job
	err := db.SelectContext(ctx, &jobs,
		`SELECT id, job_group, job_name, sort_order FROM jobs ORDER BY job_group, sort_order`)
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *Store) ListJobs(ctx context.Context) ([]domain.Job, error) {
	return listJobs(ctx, s.db)
}

func (t *Tx) ListJobs(ctx context.Context) ([]domain.Job, error) {
	return listJobs(ctx, t.tx)
}
