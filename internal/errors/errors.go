package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes. Every domain error wraps exactly one of these so that the
// HTTP layer can map it with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
)

var (
	// ErrMissingCredential is returned when the API key header is absent or empty.
	ErrMissingCredential = fmt.Errorf("%w: missing credential", ErrUnauthenticated)
	// ErrInvalidCredential is returned when no active key matches.
	ErrInvalidCredential = fmt.Errorf("%w: invalid credential", ErrUnauthenticated)
	// ErrExpiredCredential is returned when the matching key is past its expiry.
	ErrExpiredCredential = fmt.Errorf("%w: expired credential", ErrUnauthenticated)
	// ErrSuspendedAccount is returned when the key owner is suspended and suspension is enforced.
	ErrSuspendedAccount = fmt.Errorf("%w: account suspended", ErrUnauthenticated)
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)

	// ErrInsufficientRole is returned when the caller lacks the required role.
	ErrInsufficientRole = fmt.Errorf("%w: insufficient role", ErrForbidden)
	// ErrNotOwner is returned when the caller neither owns the resource nor is an admin.
	ErrNotOwner = fmt.Errorf("%w: not the owner of this resource", ErrForbidden)

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = fmt.Errorf("%w: email already registered", ErrConflict)
	// ErrAlreadyDecided is returned when a moderation decision targets a terminal state.
	ErrAlreadyDecided = fmt.Errorf("%w: already decided", ErrConflict)
)

// Validation builds a validation error with a caller facing message.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// NotFound builds a not-found error naming the missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything outside the
// taxonomy is treated as a store or programming failure and hidden behind a 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
