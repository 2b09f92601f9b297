package apperr

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"
	ErrConflict     = "CONFLICT"

	// Authentication/Authorization errors
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrInvalidToken    = "INVALID_TOKEN"

	// Credential errors
	ErrInvalidCredentials = "INVALID_CREDENTIALS"
	ErrNotVerified        = "NOT_VERIFIED"

	// Social graph errors
	ErrSelfFollowRejected = "SELF_FOLLOW_REJECTED"

	// Collaborator errors (document store, blob storage, mail)
	ErrUpstreamFailure = "UPSTREAM_FAILURE"
)

// Error creation helper functions
func New(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewUnauthenticated(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthenticated,
		Message: "Unauthenticated: " + reason,
	}
}

func NewUnauthorized(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "Unauthorized: " + reason,
	}
}

func NewNotFound(entity string, id string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

func NewSelfFollowRejected() *AppError {
	return &AppError{
		Code:    ErrSelfFollowRejected,
		Message: "You can't follow yourself",
	}
}

func NewUpstreamFailure(operation string, originalErr error) *AppError {
	return &AppError{
		Code:    ErrUpstreamFailure,
		Message: "Upstream failure during " + operation,
		Origin:  originalErr,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// Helper method to check if an error is related to authentication
func IsAuthError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrUnauthenticated ||
			appErr.Code == ErrUnauthorized ||
			appErr.Code == ErrInvalidToken
	}
	return false
}

// HTTPStatus converts an AppError code to an HTTP status code.
func HTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput, ErrInvalidCredentials, ErrInvalidToken:
		return 400 // http.StatusBadRequest
	case ErrUnauthenticated:
		return 401 // http.StatusUnauthorized
	case ErrUnauthorized, ErrNotVerified, ErrSelfFollowRejected:
		return 403 // http.StatusForbidden
	case ErrDuplicate, ErrConflict:
		return 409 // http.StatusConflict
	case ErrUpstreamFailure:
		return 502 // http.StatusBadGateway
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
