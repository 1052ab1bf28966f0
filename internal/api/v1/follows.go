package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

func (h *Handlers) ToggleFollow(c *fiber.Ctx) error {
	followerID, err := requireViewer(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	target, err := h.resolveRef(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.Follows.ToggleFollow(c.UserContext(), followerID, target)
	if err != nil {
		h.Log.Warn(c.UserContext()).WithMeta(utils.Map{
			"target": target.Key(),
			"error":  err.Error(),
		}).Logs("Follow toggle failed")
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, state)
}
