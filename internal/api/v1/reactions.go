package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

func (h *Handlers) ToggleLike(c *fiber.Ctx) error {
	return h.toggle(c, "like")
}

func (h *Handlers) ToggleDislike(c *fiber.Ctx) error {
	return h.toggle(c, "dislike")
}

func (h *Handlers) ToggleSave(c *fiber.Ctx) error {
	return h.toggle(c, "save")
}

func (h *Handlers) toggle(c *fiber.Ctx, kind string) error {
	userID, err := requireViewer(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	target, err := h.resolveRef(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	ctx := c.UserContext()
	var state interface{}
	switch kind {
	case "dislike":
		state, err = h.Reactions.ToggleDislike(ctx, target, userID)
	case "save":
		state, err = h.Reactions.ToggleSave(ctx, target, userID)
	default:
		state, err = h.Reactions.ToggleLike(ctx, target, userID)
	}
	if err != nil {
		h.Log.Warn(ctx).WithMeta(utils.Map{
			"target":   target.Key(),
			"reaction": kind,
			"error":    err.Error(),
		}).Logs("Reaction toggle failed")
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, state)
}

// Bookmarks lists the viewer's saved items, newest first.
func (h *Handlers) Bookmarks(c *fiber.Ctx) error {
	userID, err := requireViewer(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	page, limit := pagination(c)
	items, err := h.Reactions.SavedItems(c.UserContext(), userID, page, limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{
		"items": items,
		"page":  page,
		"limit": limit,
	})
}

// ReactionState serves the current counters and viewer flags for a
// target without mutating anything.
func (h *Handlers) ReactionState(c *fiber.Ctx) error {
	target, err := h.resolveRef(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.Reactions.StateFor(c.UserContext(), target, viewer(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, state)
}
