package controller

import (
	"kanzlei-ai-be/internal/pkg/serverutils"
	"kanzlei-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DraftController struct {
	draftService *service.DraftService
}

func NewDraftController(draftService *service.DraftService) *DraftController {
	return &DraftController{draftService: draftService}
}

// ListByAkte handles GET /api/akten/:id/drafts?status=pending_approval.
func (c *DraftController) ListByAkte(ctx *fiber.Ctx) error {
	akteId, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	drafts, err := c.draftService.ListByAkte(ctx.UserContext(), akteId, ctx.Query("status"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", drafts))
}

// Get handles GET /api/drafts/:id.
func (c *DraftController) Get(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	draft, err := c.draftService.Get(ctx.UserContext(), id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if draft == nil {
		return fiber.NewError(fiber.StatusNotFound, "draft not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", draft))
}

// Approve handles POST /api/drafts/:id/approve.
func (c *DraftController) Approve(ctx *fiber.Ctx) error {
	return c.decide(ctx, true)
}

// Reject handles POST /api/drafts/:id/reject.
func (c *DraftController) Reject(ctx *fiber.Ctx) error {
	return c.decide(ctx, false)
}

func (c *DraftController) decide(ctx *fiber.Ctx, approve bool) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	decide := c.draftService.Reject
	if approve {
		decide = c.draftService.Approve
	}

	draft, err := decide(ctx.UserContext(), id, identity.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	if draft == nil {
		return fiber.NewError(fiber.StatusNotFound, "draft not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", draft))
}
