// Package validation provides validation functions for request payloads.
// Length limits mirror the column sizes of the schema in
// internal/storage/sql/migrations.
package validation

import (
	"fmt"
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/dadok/readingclub/internal/domain"
)

// Field limits.
const (
	NicknameMinLength = 2
	NicknameMaxLength = 10

	BookTitleMaxLength   = 500
	BookAuthorMaxLength  = 255
	ISBNMinLength        = 10
	ISBNMaxLength        = 20
	URLMaxLength         = 2083
	APIProviderMaxLength = 20

	GroupTitleMaxLength     = 30
	GroupIntroduceMaxLength = 1000
	JoinQuestionMaxLength   = 30
	JoinPasswordMaxLength   = 10

	CommentMaxLength = 2000
)

// isAlpha returns true if the rune is an ASCII letter.
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isNum returns true if the rune is an ASCII digit.
func isNum(r rune) bool {
	return r >= '0' && r <= '9'
}

// isHangul returns true for precomposed hangul syllables.
func isHangul(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}

// validateLength checks that s is between min and max characters long.
// A max of zero means unbounded.
func validateLength(s string, min, max int, what string) error {
	n := utf8.RuneCountInString(s)
	if n < min {
		if min == 1 {
			return fmt.Errorf("%s must not be empty", what)
		}
		return fmt.Errorf("%s must be at least %d characters", what, min)
	}
	if max > 0 && n > max {
		return fmt.Errorf("%s must be at most %d characters", what, max)
	}
	return nil
}

// ValidateNickname validates a user nickname.
// Nicknames are 2 to 10 characters of letters, digits, hangul, '_' or '-'.
func ValidateNickname(nickname string) error {
	if err := validateLength(nickname, NicknameMinLength, NicknameMaxLength, "nickname"); err != nil {
		return err
	}
	for _, r := range nickname {
		if !isAlpha(r) && !isNum(r) && !isHangul(r) && r != '_' && r != '-' {
			return fmt.Errorf("nickname can only contain letters, numbers, hangul, '_' or '-'")
		}
	}
	return nil
}

// ValidateURL validates an optional absolute http(s) URL.
func ValidateURL(raw string) error {
	if raw == "" {
		return nil
	}
	if utf8.RuneCountInString(raw) > URLMaxLength {
		return fmt.Errorf("url must be at most %d characters", URLMaxLength)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("must be an absolute http or https URL")
	}
	return nil
}

// ValidateBook validates the embedded book payload of a create request.
func ValidateBook(req domain.BookCreateRequest, prefix string) ValidationErrors {
	var errs ValidationErrors
	if err := validateLength(req.Title, 1, BookTitleMaxLength, "title"); err != nil {
		errs.Add(prefix+"title", req.Title, err.Error())
	}
	if err := validateLength(req.Author, 1, BookAuthorMaxLength, "author"); err != nil {
		errs.Add(prefix+"author", req.Author, err.Error())
	}
	if err := validateLength(req.ISBN, ISBNMinLength, ISBNMaxLength, "isbn"); err != nil {
		errs.Add(prefix+"isbn", req.ISBN, err.Error())
	}
	if err := validateLength(req.Contents, 1, 0, "contents"); err != nil {
		errs.Add(prefix+"contents", req.Contents, err.Error())
	}
	if err := ValidateURL(req.URL); err != nil {
		errs.Add(prefix+"url", req.URL, err.Error())
	}
	if err := ValidateURL(req.ImageURL); err != nil {
		errs.Add(prefix+"imageUrl", req.ImageURL, err.Error())
	}
	if err := validateLength(req.APIProvider, 0, APIProviderMaxLength, "apiProvider"); err != nil {
		errs.Add(prefix+"apiProvider", req.APIProvider, err.Error())
	}
	return errs
}

// ValidateGroupCreate validates a book group creation request.
func ValidateGroupCreate(req domain.BookGroupCreateRequest) ValidationErrors {
	errs := ValidateBook(req.Book, "book.")
	if err := validateLength(req.Title, 1, GroupTitleMaxLength, "title"); err != nil {
		errs.Add("title", req.Title, err.Error())
	}
	if err := validateLength(req.Introduce, 1, GroupIntroduceMaxLength, "introduce"); err != nil {
		errs.Add("introduce", req.Introduce, err.Error())
	}
	if req.StartDate.IsZero() {
		errs.Add("startDate", "", "startDate is required")
	}
	if req.EndDate.IsZero() {
		errs.Add("endDate", "", "endDate is required")
	}
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.StartDate.After(req.EndDate.Time) {
		errs.Add("endDate", req.EndDate.String(), "endDate must not be before startDate")
	}
	if req.MaxMemberCount < 1 {
		errs.Add("maxMemberCount", strconv.Itoa(req.MaxMemberCount), "maxMemberCount must be at least 1")
	}
	if err := validateLength(req.JoinQuestion, 0, JoinQuestionMaxLength, "joinQuestion"); err != nil {
		errs.Add("joinQuestion", req.JoinQuestion, err.Error())
	}
	if err := validateLength(req.JoinPassword, 0, JoinPasswordMaxLength, "joinPassword"); err != nil {
		errs.Add("joinPassword", "", err.Error())
	}
	if req.JoinPassword != "" && req.JoinQuestion == "" {
		errs.Add("joinQuestion", "", "joinQuestion is required when a join password is set")
	}
	return errs
}

// ValidateGroupUpdate validates the fields present in an update request.
func ValidateGroupUpdate(req domain.BookGroupUpdateRequest) ValidationErrors {
	var errs ValidationErrors
	if req.Title != nil {
		if err := validateLength(*req.Title, 1, GroupTitleMaxLength, "title"); err != nil {
			errs.Add("title", *req.Title, err.Error())
		}
	}
	if req.Introduce != nil {
		if err := validateLength(*req.Introduce, 1, GroupIntroduceMaxLength, "introduce"); err != nil {
			errs.Add("introduce", *req.Introduce, err.Error())
		}
	}
	if req.MaxMemberCount != nil && *req.MaxMemberCount < 1 {
		errs.Add("maxMemberCount", strconv.Itoa(*req.MaxMemberCount), "maxMemberCount must be at least 1")
	}
	return errs
}

// ValidateComment validates a comment body.
func ValidateComment(req domain.CommentCreateRequest) ValidationErrors {
	var errs ValidationErrors
	if err := validateLength(req.Contents, 1, CommentMaxLength, "contents"); err != nil {
		errs.Add("contents", req.Contents, err.Error())
	}
	return errs
}

// ValidateJobRegister checks that both parts of a job are present.
func ValidateJobRegister(req domain.JobRegisterRequest) ValidationErrors {
	var errs ValidationErrors
	if req.JobGroup == "" {
		errs.Add("jobGroup", "", "jobGroup is required")
	}
	if req.JobName == "" {
		errs.Add("jobName", "", "jobName is required")
	}
	return errs
}
