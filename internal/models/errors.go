package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes form a closed taxonomy. Every failure is classified at the
// throw site; nothing downstream inspects error text to decide a status.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeDuplicateKey = "DUPLICATE_KEY"
	CodeInvalidID    = "INVALID_ID"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeTokenInvalid = "TOKEN_INVALID"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the application error type carried between layers.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports a missing resource ("User not found").
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: resource + " not found",
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewDuplicateKeyError reports a unique-constraint violation on the named field.
func NewDuplicateKeyError(field string) *AppError {
	return &AppError{
		Code:    CodeDuplicateKey,
		Message: fmt.Sprintf("%s already exists. Please use a different %s.", field, field),
	}
}

func NewInvalidIDError() *AppError {
	return &AppError{
		Code:    CodeInvalidID,
		Message: "Invalid ID format",
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewTokenInvalidError() *AppError {
	return &AppError{
		Code:    CodeTokenInvalid,
		Message: "Invalid token",
	}
}

func NewTokenExpiredError() *AppError {
	return &AppError{
		Code:    CodeTokenExpired,
		Message: "Token expired",
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal Server Error",
		Err:     err,
	}
}

// MapError is the single place translating an internal error into an HTTP
// status code. Unclassified errors map to 500.
func MapError(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}

	switch appErr.Code {
	case CodeValidation, CodeDuplicateKey, CodeInvalidID:
		return fiber.StatusBadRequest
	case CodeUnauthorized, CodeTokenInvalid, CodeTokenExpired:
		return fiber.StatusUnauthorized
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
