package domain

import "time"

// User is a registered reader. Users are created by the login flow, which
// lives outside this service; here they are referenced and projected.
type User struct {
	ID            int64     `json:"userId" db:"id"`
	Name          string    `json:"name" db:"name"`
	Nickname      string    `json:"nickname" db:"nickname"`
	OAuthNickname string    `json:"oauthNickname" db:"oauth_nickname"`
	Email         string    `json:"email" db:"email"`
	ProfileImage  string    `json:"profileImage" db:"profile_image"`
	Gender        string    `json:"gender" db:"gender"`
	AuthProvider  string    `json:"authProvider" db:"auth_provider"`
	JobID         *int64    `json:"-" db:"job_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// UserJobResponse is the job part of user projections. Users without a
// registered job get empty fields.
type UserJobResponse struct {
	JobGroup  string `json:"jobGroup"`
	JobName   string `json:"jobName"`
	SortOrder int    `json:"order"`
}

// UserDetailResponse is the requester's own account view.
type UserDetailResponse struct {
	UserID        int64           `json:"userId"`
	Name          string          `json:"name"`
	Nickname      string          `json:"nickname"`
	OAuthNickname string          `json:"oauthNickname"`
	Email         string          `json:"email"`
	ProfileImage  string          `json:"profileImage"`
	Gender        string          `json:"gender"`
	AuthProvider  string          `json:"authProvider"`
	Job           UserJobResponse `json:"job"`
}

// UserProfileResponse is the public view of a user.
type UserProfileResponse struct {
	UserID       int64           `json:"userId"`
	Nickname     string          `json:"nickname"`
	ProfileImage string          `json:"profileImage"`
	Gender       string          `json:"gender"`
	Job          UserJobResponse `json:"job"`
}

// NicknameChangeRequest is the body of PATCH /api/users/me/nickname.
type NicknameChangeRequest struct {
	Nickname string `json:"nickname"`
}

// JobRegisterRequest is the body of PUT /api/users/me/jobs.
type JobRegisterRequest struct {
	JobGroup string `json:"jobGroup"`
	JobName  string `json:"jobName"`
}
