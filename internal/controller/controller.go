package controller

import (
	"kanzlei-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// identityFromCtx reads the authenticated identity the JWT middleware
// stored in Locals.
func identityFromCtx(ctx *fiber.Ctx) (service.Identity, error) {
	raw, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		return service.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "invalid user identity")
	}

	role, _ := ctx.Locals("role").(string)
	email, _ := ctx.Locals("email").(string)
	return service.Identity{UserID: userId, Role: role, Email: email}, nil
}

func parseUUIDParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
