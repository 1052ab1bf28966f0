// Package api wires the HTTP boundary: middleware, routes, and the
// thin v1 handlers over the engines.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mnuddindev/pulsefeed/internal/config"
	v1 "github.com/mnuddindev/pulsefeed/internal/api/v1"
	"github.com/mnuddindev/pulsefeed/pkg/logger"
)

// NewRoutes installs middleware and mounts the v1 API.
func NewRoutes(ctx context.Context, app *fiber.App, cfg *config.Config, log *logger.Logger, h *v1.Handlers) {
	app.Use(
		recover.New(),
		cors.New(
			cors.Config{
				AllowOrigins:     "http://localhost:3000",
				AllowCredentials: true,
				AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			},
		),
		compress.New(
			compress.Config{
				Level: compress.LevelBestSpeed,
			},
		),
		limiter.New(
			limiter.Config{
				Expiration: 1 * time.Minute,
				Max:        60,
				KeyGenerator: func(c *fiber.Ctx) string {
					return c.IP()
				},
			},
		),
	)
	app.Use(log.Middleware())
	app.Use(ViewerMiddleware(cfg.JWTSecret, log))
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("logger", log)
		c.SetUserContext(logger.SetupRoutesContext(c))
		return c.Next()
	})

	api := app.Group("/api/v1")

	toggles := api.Group("", ToggleLimiter(cfg.ReactionWindow))
	toggles.Post("/reactions/:type/:slug/like", h.ToggleLike)
	toggles.Post("/reactions/:type/:slug/dislike", h.ToggleDislike)
	toggles.Post("/reactions/:type/:slug/save", h.ToggleSave)
	toggles.Post("/follows/:type/:slug", h.ToggleFollow)

	api.Get("/reactions/:type/:slug", h.ReactionState)
	api.Get("/bookmarks", h.Bookmarks)

	api.Get("/comments/replies/:id", h.ListReplies)
	api.Get("/comments/:type/:slug", h.ListComments)
	api.Post("/comments/:type/:slug", h.AddComment)
	api.Delete("/comments/:id", h.DeleteComment)

	api.Get("/feed", h.Feed)
	api.Get("/discover", h.Discover)
}
