package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"askpdf/internal/document"
	"askpdf/internal/domain"
	"askpdf/internal/logger"
)

// Error is the JSON body of a failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, msg string) Error {
	return Error{Code: code, Message: msg}
}

func ErrBadRequest() Error {
	return NewError(fiber.StatusBadRequest, "invalid JSON request")
}

// ValidationError carries per-field validation failures.
type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errs map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errs,
	}
}

// ErrorHandler maps handler errors onto status codes and JSON bodies.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}
	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Status).JSON(valErr)
	}

	code := statusFor(err)
	apiErr = NewError(code, err.Error())
	if code >= fiber.StatusInternalServerError {
		logger.Warn("%s request failed with code %d and message: %s", time.Now().Format(time.RFC3339), code, apiErr.Message)
	}
	return c.Status(code).JSON(apiErr)
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrInvalidConfig):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyDocument):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoDocumentLoaded):
		return fiber.StatusConflict
	case errors.Is(err, document.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType
	default:
		return fiber.StatusInternalServerError
	}
}

func errMissingFile() Error {
	return NewError(fiber.StatusBadRequest, fmt.Sprintf("expected multipart field %q or JSON body with %q", "file", "text"))
}
