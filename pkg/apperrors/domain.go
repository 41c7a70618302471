package apperrors

import (
	"net/http"
)

// Factories and predefined values for the domain errors the services
// return. Handlers never build these themselves.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and
// friends) into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrEmailDelivery reports an outbound send failure. The request is
// retryable; any state committed before the send stays committed.
func ErrEmailDelivery(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "email",
		"Email not sent, please try again later", http.StatusInternalServerError)
}

// ErrInvalidCredentials covers both unknown-email and wrong-password
// on login so callers cannot tell the two apart.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusBadRequest,
)

// ErrInvalidResetToken is the uniform failure for every reset-token
// rejection: no match, already consumed, or expired.
var ErrInvalidResetToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired reset token",
	http.StatusNotFound,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email has already been registered",
	http.StatusBadRequest,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 6 characters",
	http.StatusBadRequest,
)

var ErrWrongOldPassword = New(
	CodeInvalidCredentials,
	"auth",
	"Old password is incorrect",
	http.StatusBadRequest,
)

// ErrUserNotFound is the forgot-password response for unknown emails.
// It leaks account existence; auth.reveal_unknown_email=false
// suppresses it.
var ErrUserNotFound = New(
	CodeNotFound,
	"auth",
	"User not found, please sign up",
	http.StatusNotFound,
)

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)
