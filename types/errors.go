package types

import "net/http"

// AppError is a domain error carrying the wire code and HTTP status the
// handlers translate it to. Handlers must not leak anything beyond Code
// and Message to the client.
type AppError struct {
	Code    string
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: "FORBIDDEN", Status: http.StatusForbidden, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: "RESOURCE_CONFLICT", Status: http.StatusConflict, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: "RESOURCE_NOT_FOUND", Status: http.StatusNotFound, Message: message}
}

var (
	ErrSlotUnavailable = &AppError{
		Code:    "SLOT_UNAVAILABLE",
		Status:  http.StatusConflict,
		Message: "The requested slot is unavailable",
	}
	ErrInvalidCredentials = &AppError{
		Code:    "AUTH_INVALID_CREDENTIALS",
		Status:  http.StatusUnauthorized,
		Message: "Email or password is incorrect",
	}
	ErrInvalidToken = &AppError{
		Code:    "AUTH_INVALID_TOKEN",
		Status:  http.StatusUnauthorized,
		Message: "Token is invalid or expired",
	}
	ErrAuthForbidden = &AppError{
		Code:    "AUTH_FORBIDDEN",
		Status:  http.StatusForbidden,
		Message: "User is inactive or not permitted",
	}
)
