package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

func (h *Handlers) AddComment(c *fiber.Ctx) error {
	authorID, err := requireViewer(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	target, err := h.resolveRef(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	type CommentInput struct {
		Content  string `json:"content" validate:"required"`
		ParentID *uint  `json:"parent_id" validate:"omitempty,min=1"`
	}
	ci := new(CommentInput)
	if err := utils.StrictBodyParser(c, ci); err != nil {
		h.Log.Warn(c.UserContext()).WithFields(err).Logs("Failed to parse comment body: %v")
		return utils.SendError(c, utils.ErrBadRequest)
	}
	if verr := h.Validator.Validate(ci); verr != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": verr,
		})
	}

	created, err := h.Comments.Add(c.UserContext(), target, authorID, ci.Content, ci.ParentID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.Success(c).WithMessage("Comment created").WithData(created).Send()
}

func (h *Handlers) ListComments(c *fiber.Ctx) error {
	target, err := h.resolveRef(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	page, limit := pagination(c)
	comments, err := h.Comments.List(c.UserContext(), target, viewer(c), page, limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{
		"comments": comments,
		"page":     page,
		"limit":    limit,
	})
}

func (h *Handlers) ListReplies(c *fiber.Ctx) error {
	commentID, err := c.ParamsInt("id")
	if err != nil || commentID < 1 {
		return utils.SendError(c, utils.NotFound("comment"))
	}

	page, limit := pagination(c)
	replies, err := h.Comments.ListReplies(c.UserContext(), uint(commentID), viewer(c), page, limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{
		"replies": replies,
		"page":    page,
		"limit":   limit,
	})
}

func (h *Handlers) DeleteComment(c *fiber.Ctx) error {
	actorID, err := requireViewer(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	commentID, err := c.ParamsInt("id")
	if err != nil || commentID < 1 {
		return utils.SendError(c, utils.NotFound("comment"))
	}

	if err := h.Comments.Delete(c.UserContext(), uint(commentID), actorID); err != nil {
		return utils.SendError(c, err)
	}

	return utils.Success(c).WithMessage("Comment deleted").Send()
}
