package utils

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestWithCauseLeavesSentinelUntouched(t *testing.T) {
	wrapped := ErrInternalServerError.WithCause(errors.New("boom"))

	if wrapped == ErrInternalServerError {
		t.Fatal("WithCause returned the shared sentinel instead of a copy")
	}
	if wrapped.Details != "boom" {
		t.Fatalf("wrapped details = %q, want %q", wrapped.Details, "boom")
	}
	if ErrInternalServerError.Details != "" {
		t.Fatalf("sentinel details = %q after WithCause, want empty", ErrInternalServerError.Details)
	}
	if wrapped.Code != ErrInternalServerError.Code || wrapped.Message != ErrInternalServerError.Message {
		t.Fatalf("wrapped = %+v, want code/message of the sentinel", wrapped)
	}
}

func TestWithCauseNilError(t *testing.T) {
	if got := ErrNotFound.WithCause(nil); got != ErrNotFound {
		t.Fatalf("WithCause(nil) = %+v, want the receiver unchanged", got)
	}
}

func TestHandleErrorMapping(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: HandleError})
	app.Get("/missing", func(c *fiber.Ctx) error { return NotFound("article") })
	app.Get("/routed", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"custom error keeps its code", "/missing", fiber.StatusNotFound},
		{"fiber error keeps its code", "/routed", fiber.StatusTeapot},
		{"plain error maps to 500", "/plain", fiber.StatusInternalServerError},
		{"unknown route", "/nope", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			if err != nil {
				t.Fatalf("Test(%s) error = %v", tt.path, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestHandleErrorDoesNotMutateServerError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: HandleError})
	appErr := NewError(fiber.StatusInternalServerError, "Internal server error", "connection refused")
	app.Get("/fail", func(c *fiber.Ctx) error { return appErr })

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	// 5xx details are scrubbed from the response, not from the error.
	if appErr.Details != "connection refused" {
		t.Fatalf("error details = %q after handling, want original", appErr.Details)
	}
}
