// Package v1 holds the thin HTTP handlers over the engines. Handlers
// resolve {type, slug} path identifiers through the registry before
// anything reaches an engine.
package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mnuddindev/pulsefeed/internal/comment"
	"github.com/mnuddindev/pulsefeed/internal/feed"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/internal/reaction"
	"github.com/mnuddindev/pulsefeed/internal/registry"
	"github.com/mnuddindev/pulsefeed/internal/social"
	"github.com/mnuddindev/pulsefeed/pkg/logger"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

type Handlers struct {
	Log        *logger.Logger
	Reg        *registry.Registry
	Reactions  *reaction.Engine
	Comments   *comment.Service
	Follows    *social.Engine
	FeedPipe   *feed.Pipeline
	Aggregates feed.Aggregates
	Validator  *utils.Validator
}

// resolveRef turns the {type, slug} path pair into a reactable
// reference.
func (h *Handlers) resolveRef(c *fiber.Ctx) (models.Ref, error) {
	kind := c.Params("type")
	slug := c.Params("slug")

	id, err := h.Reg.ResolveID(c.UserContext(), kind, slug)
	if err != nil {
		return models.Ref{}, err
	}
	return models.Ref{Kind: kind, ID: id}, nil
}

// pagination reads page/limit query params with bounds.
func pagination(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return page, limit
}
