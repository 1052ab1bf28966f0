// Package utils provides shared helpers for the PulseFeed application.
package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Common error types for reuse.
var (
	ErrBadRequest          = NewError(fiber.StatusBadRequest, "Invalid request")
	ErrUnauthorized        = NewError(fiber.StatusUnauthorized, "Unauthorized")
	ErrForbidden           = NewError(fiber.StatusForbidden, "Forbidden")
	ErrNotFound            = NewError(fiber.StatusNotFound, "Resource not found")
	ErrUnprocessable       = NewError(fiber.StatusUnprocessableEntity, "Validation failed")
	ErrTooManyRequests     = NewError(fiber.StatusTooManyRequests, "Too many requests")
	ErrBadGateway          = NewError(fiber.StatusBadGateway, "Upstream unavailable")
	ErrInternalServerError = NewError(fiber.StatusInternalServerError, "Internal server error")
)

// CustomError represents a structured error for the web app.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewError creates a new Error with a status code, message, and optional details.
func NewError(code int, message string, details ...string) *CustomError {
	e := &CustomError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// WithCause returns a copy of the error carrying the underlying
// detail. The receiver is left untouched, so shared sentinels stay
// safe to use concurrently.
func (e *CustomError) WithCause(err error) *CustomError {
	if err == nil {
		return e
	}
	out := *e
	out.Details = err.Error()
	return &out
}

// UnknownType reports an unregistered content kind.
func UnknownType(kind string) *CustomError {
	return NewError(fiber.StatusBadRequest, "Unknown content type", kind)
}

// NotFound reports a missing entity, comment, or relation.
func NotFound(what string) *CustomError {
	return NewError(fiber.StatusNotFound, "Resource not found", what)
}

// Validation reports a policy violation with field-level detail.
func Validation(field, msg string) *CustomError {
	return NewError(fiber.StatusUnprocessableEntity, "Validation failed", field+": "+msg)
}

// Upstream reports a failing external collaborator.
func Upstream(service string, err error) *CustomError {
	details := service
	if err != nil {
		details = service + ": " + err.Error()
	}
	return NewError(fiber.StatusBadGateway, "Upstream unavailable", details)
}

// IsNotFound reports whether err is a 404-class CustomError.
func IsNotFound(err error) bool { return hasCode(err, fiber.StatusNotFound) }

// IsUnknownType reports whether err marks an unregistered content kind.
func IsUnknownType(err error) bool {
	var appErr *CustomError
	return As(err, &appErr) && appErr.Code == fiber.StatusBadRequest && appErr.Message == "Unknown content type"
}

// IsValidation reports whether err is a 422-class CustomError.
func IsValidation(err error) bool { return hasCode(err, fiber.StatusUnprocessableEntity) }

// IsUpstream reports whether err marks a failing external collaborator.
func IsUpstream(err error) bool { return hasCode(err, fiber.StatusBadGateway) }

func hasCode(err error, code int) bool {
	var appErr *CustomError
	return As(err, &appErr) && appErr.Code == code
}

// HandleError sends a standardized error response using GoFiber. It is
// wired as the fiber ErrorHandler, so it also sees fiber's own routing
// errors and anything a handler returns without mapping.
func HandleError(c *fiber.Ctx, err error) error {
	var appErr *CustomError

	if As(err, &appErr) {
		details := appErr.Details
		if appErr.Code >= 500 {
			details = ""
		}
		return c.Status(appErr.Code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": details,
			},
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    fiberErr.Code,
				"message": fiberErr.Message,
			},
		})
	}

	// Fallback for unhandled errors
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    fiber.StatusInternalServerError,
			"message": "Something went wrong",
		},
	})
}

// WrapError wraps an existing error with a custom status and message.
func WrapError(err error, code int, message string) *CustomError {
	return NewError(code, message, err.Error())
}

// As is a helper to unwrap errors (replacing errors.As for clarity in this package).
func As(err error, target interface{}) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*CustomError); ok {
		if t, ok := target.(**CustomError); ok {
			*t = e
			return true
		}
	}
	return false
}
