package controller

import (
	"kanzlei-ai-be/internal/pkg/serverutils"
	"kanzlei-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	notificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List handles GET /api/notifications?unread=true&limit=50.
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}

	notifications, err := c.notificationService.List(ctx.UserContext(),
		identity.UserID, ctx.QueryBool("unread"), ctx.QueryInt("limit"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", notifications))
}

// MarkRead handles POST /api/notifications/:id/read.
func (c *NotificationController) MarkRead(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.notificationService.MarkRead(ctx.UserContext(), id); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"id": id}))
}

// MarkAllRead handles POST /api/notifications/read-all.
func (c *NotificationController) MarkAllRead(ctx *fiber.Ctx) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := c.notificationService.MarkAllRead(ctx.UserContext(), identity.UserID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{}))
}
