package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable error codes crossing the API boundary.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidSupplierID  = "INVALID_SUPPLIER_ID"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeNotFound           = "NOT_FOUND"
	CodeStorage            = "STORAGE_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
)

// Error is the single structured error type the services raise. Handlers
// serialize it into the {success:false, error_code, message} envelope.
type Error struct {
	Code    string
	Message string
	Status  int
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Validation flags malformed or out-of-range input.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...), Status: http.StatusBadRequest}
}

// InvalidSupplierID flags supplier references that do not resolve.
func InvalidSupplierID(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidSupplierID, Message: fmt.Sprintf(format, args...), Status: http.StatusBadRequest}
}

// PermissionDenied flags an authorization failure with a human-readable reason.
func PermissionDenied(format string, args ...interface{}) *Error {
	return &Error{Code: CodePermissionDenied, Message: fmt.Sprintf(format, args...), Status: http.StatusForbidden}
}

// NotFound flags a missing resource.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...), Status: http.StatusNotFound}
}

// Unauthorized flags authentication failures (bad credentials, bad tokens).
func Unauthorized(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: http.StatusUnauthorized}
}

// Storage wraps any persistence failure. The enclosing transaction has
// already been rolled back by the time this surfaces.
func Storage(err error) *Error {
	return &Error{Code: CodeStorage, Message: "storage operation failed", Status: http.StatusInternalServerError, cause: err}
}

// From coerces any error into an *Error. Unknown errors become storage
// errors so internal details never leak to the caller.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Storage(err)
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
