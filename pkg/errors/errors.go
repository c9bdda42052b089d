package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases. Workflow code matches on these
// with errors.Is; the numeric codes below are what goes over the wire.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyExists     = errors.New("resource already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternal          = errors.New("internal error")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrInvalidToken      = errors.New("invalid token")
	ErrStaleRefreshToken = errors.New("stale refresh token")
)

// Numeric error codes carried in the response envelope. The numbering is part
// of the public API contract and must stay stable.
const (
	CodeReportNotFound      = 1
	CodeInternal            = 10
	CodeUserNotFound        = 11
	CodeDuplicateUser       = 12
	CodeDuplicateReport     = 13
	CodeRoleAlreadyAssigned = 14
	CodePasswordMismatch    = 21
	CodeInvalidCredentials  = 22
	CodeInvalidToken        = 23
	CodeStaleRefreshToken   = 24
	CodeDuplicateRole       = 31
	CodeRoleNotFound        = 32
)

// AppError is a structured application error with a wire code and an HTTP
// status mapping.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// PasswordMismatch creates the error returned when the registration password
// and its confirmation differ.
func PasswordMismatch() *AppError {
	return &AppError{
		Code:    CodePasswordMismatch,
		Message: "password and confirmation do not match",
		Status:  http.StatusBadRequest,
		Err:     ErrPasswordMismatch,
	}
}

// DuplicateUser creates the error returned when a login is already taken.
func DuplicateUser(login string) *AppError {
	return &AppError{
		Code:    CodeDuplicateUser,
		Message: fmt.Sprintf("user with login %q already exists", login),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// UserNotFound creates the error returned when no user matches a login.
func UserNotFound(login string) *AppError {
	return &AppError{
		Code:    CodeUserNotFound,
		Message: fmt.Sprintf("user with login %q not found", login),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidCredentials creates the error returned on a failed password check.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    CodeInvalidCredentials,
		Message: "invalid login or password",
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// RoleNotFound creates the error returned when a role does not exist or is
// not held by the user in question.
func RoleNotFound(name string) *AppError {
	return &AppError{
		Code:    CodeRoleNotFound,
		Message: fmt.Sprintf("role %q not found", name),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// DuplicateRole creates the error returned when a role name is already taken.
func DuplicateRole(name string) *AppError {
	return &AppError{
		Code:    CodeDuplicateRole,
		Message: fmt.Sprintf("role %q already exists", name),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// RoleAlreadyAssigned creates the error returned when assigning a role the
// user already holds.
func RoleAlreadyAssigned(login, role string) *AppError {
	return &AppError{
		Code:    CodeRoleAlreadyAssigned,
		Message: fmt.Sprintf("user %q already holds role %q", login, role),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidToken creates the error returned when an access token fails
// signature, issuer, audience, or algorithm validation.
func InvalidToken(err error) *AppError {
	return &AppError{
		Code:    CodeInvalidToken,
		Message: "invalid access token",
		Status:  http.StatusUnauthorized,
		Err:     errors.Join(ErrInvalidToken, err),
	}
}

// StaleRefreshToken creates the error returned when the supplied refresh
// token does not match the stored one or the stored one has expired.
func StaleRefreshToken() *AppError {
	return &AppError{
		Code:    CodeStaleRefreshToken,
		Message: "refresh token is invalid or expired",
		Status:  http.StatusUnauthorized,
		Err:     ErrStaleRefreshToken,
	}
}

// ReportNotFound creates the error returned when a report lookup misses.
func ReportNotFound(id int64) *AppError {
	return &AppError{
		Code:    CodeReportNotFound,
		Message: fmt.Sprintf("report %d not found", id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// DuplicateReport creates the error returned when a user already has a report
// with the same name.
func DuplicateReport(name string) *AppError {
	return &AppError{
		Code:    CodeDuplicateReport,
		Message: fmt.Sprintf("report with name %q already exists", name),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error with no domain-specific code.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Internal creates the error surfaced for unexpected store or transaction
// failures. The cause is wrapped for logging but never exposed in Message.
func Internal(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     errors.Join(ErrInternal, err),
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPasswordMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrStaleRefreshToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WireCode returns the numeric envelope code for the given error. Unknown
// errors map to CodeInternal.
func WireCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
