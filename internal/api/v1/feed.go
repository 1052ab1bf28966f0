package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mnuddindev/pulsefeed/internal/feed"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

// scopeParams maps feed scope query params to the content kind the
// value resolves against.
var scopeParams = map[string]string{
	"category": models.KindCategory,
	"tag":      models.KindTag,
	"user":     models.KindUser,
	"article":  models.KindArticle,
	"entry":    models.KindEntry,
}

func (h *Handlers) Feed(c *fiber.Ctx) error {
	page, limit := pagination(c)

	scope, err := h.feedScope(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.FeedPipe.Build(c.UserContext(), feed.Request{
		Viewer: viewer(c),
		Tab:    c.Query("tab", feed.TabAll),
		Page:   page,
		Limit:  limit,
		Scope:  scope,
	})
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result)
}

// feedScope reads the optional scoping query param and resolves its
// slug to a reference. More than one scoping dimension is rejected.
func (h *Handlers) feedScope(c *fiber.Ctx) (*models.Ref, error) {
	var scope *models.Ref
	for param, kind := range scopeParams {
		slug := c.Query(param)
		if slug == "" {
			continue
		}
		if scope != nil {
			return nil, utils.Validation("scope", "at most one scoping parameter per request")
		}

		id, err := h.Reg.ResolveID(c.UserContext(), kind, slug)
		if err != nil {
			return nil, err
		}
		scope = &models.Ref{Kind: kind, ID: id}
	}
	return scope, nil
}

func (h *Handlers) Discover(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 20 {
		limit = 5
	}

	block, err := h.FeedPipe.Discover(c.UserContext(), h.Aggregates, limit)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, block)
}
