package controller

import (
	"kanzlei-ai-be/internal/pkg/serverutils"
	"kanzlei-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UsageController struct {
	usageService *service.UsageService
}

func NewUsageController(usageService *service.UsageService) *UsageController {
	return &UsageController{usageService: usageService}
}

// Summary handles GET /api/agent/usage.
func (c *UsageController) Summary(ctx *fiber.Ctx) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}

	total, err := c.usageService.TotalTokensForUser(ctx.UserContext(), identity.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	runs, err := c.usageService.RecentRuns(ctx.UserContext(), identity.UserID, ctx.QueryInt("limit"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{
		"total_tokens": total,
		"runs":         runs,
	}))
}
