package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error wraps exactly one of these so callers can use errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrDuplicate          = errors.New("duplicate")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrBusinessRule       = errors.New("business rule violation")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvalidState       = errors.New("invalid state")
)

// Error codes for standardized API error responses.
const (
	// Comments
	ErrCodeCommentNotParent        = "C001"
	ErrCodeCommentWriterNotMatched = "C003"

	// Common
	ErrCodeResourceNotFound   = "C002"
	ErrCodeInvalidArgument    = "I001"
	ErrCodeBadRequest         = "E001"
	ErrCodeInternalError      = "E002"
	ErrCodeTooManyRequests    = "E003"
	ErrCodePreconditionFailed = "P001"

	// Users
	ErrCodeAlreadyExistsNickname = "U001"

	// Auth
	ErrCodeUserNotFound       = "A001"
	ErrCodeInvalidAccessToken = "A002"

	// Bookshelves
	ErrCodeAlreadyContainBookshelfItem = "S001"
	ErrCodeBookshelfUserNotMatched     = "S002"

	// Books
	ErrCodeBookDataInvalid = "B001"
	ErrCodeDuplicateISBN   = "B003"

	// Book groups
	ErrCodeExceedLimitMember        = "G001"
	ErrCodeAlreadyBookGroupMember   = "G002"
	ErrCodeNotMatchedPassword       = "G003"
	ErrCodeBookGroupOwnerNotMatched = "G004"
	ErrCodeExpiredJoinGroup         = "G005"
	ErrCodeCannotDeleteMemberExist  = "G006"
	ErrCodeLessThanCurrentMembers   = "G007"
	ErrCodeNotBookGroupMember       = "G008"
)

// Error is a typed business error. Kind decides the HTTP status, Code is the
// machine-readable code returned to clients.
type Error struct {
	Kind    error
	Code    string
	Message string
	Field   string
	Value   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound reports that the named resource does not exist.
func NotFound(resource string) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Code:    ErrCodeResourceNotFound,
		Message: fmt.Sprintf("%s resource does not exist", resource),
	}
}

// InvalidArgument reports a malformed input value for a named field.
func InvalidArgument(field string, value any) *Error {
	v := fmt.Sprint(value)
	return &Error{
		Kind:    ErrInvalidArgument,
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf("invalid value for %s. value : %s", field, v),
		Field:   field,
		Value:   v,
	}
}

// Duplicate reports a unique-constraint violation surfaced as a business error.
func Duplicate(code, message string) *Error {
	return &Error{Kind: ErrDuplicate, Code: code, Message: message}
}

// Unauthorized reports an ownership, membership or credential mismatch.
func Unauthorized(code, message string) *Error {
	return &Error{Kind: ErrUnauthorized, Code: code, Message: message}
}

// BusinessRule reports a violated domain rule such as capacity or join window.
func BusinessRule(code, message string) *Error {
	return &Error{Kind: ErrBusinessRule, Code: code, Message: message}
}

// PreconditionFailed reports a stale If-Match header.
func PreconditionFailed(message string) *Error {
	return &Error{Kind: ErrPreconditionFailed, Code: ErrCodePreconditionFailed, Message: message}
}

// InvalidState reports an internal contract violation. It is never user-recoverable.
func InvalidState(format string, args ...any) *Error {
	return &Error{
		Kind:    ErrInvalidState,
		Code:    ErrCodeInternalError,
		Message: fmt.Sprintf(format, args...),
	}
}

// FieldError is one rejected field inside an ErrorResponse.
type FieldError struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// ErrorResponse is the body written for every failed API request.
type ErrorResponse struct {
	Status      int          `json:"status"`
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	Path        string       `json:"path"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}
