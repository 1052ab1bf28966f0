package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

// viewer returns the authenticated user id set by the viewer
// middleware, or nil for anonymous requests.
func viewer(c *fiber.Ctx) *uint {
	if id, ok := c.Locals("viewer_id").(uint); ok {
		return &id
	}
	return nil
}

// requireViewer rejects anonymous requests on mutation routes.
func requireViewer(c *fiber.Ctx) (uint, error) {
	v := viewer(c)
	if v == nil {
		return 0, utils.ErrUnauthorized
	}
	return *v, nil
}
