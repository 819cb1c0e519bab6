package controller

import (
	"kanzlei-ai-be/internal/pkg/serverutils"
	"kanzlei-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AgentController struct {
	agentService *service.AgentService
}

func NewAgentController(agentService *service.AgentService) *AgentController {
	return &AgentController{agentService: agentService}
}

type chatRequest struct {
	Message   string `json:"message" validate:"required,min=1,max=8000"`
	AkteId    string `json:"akte_id" validate:"omitempty,uuid"`
	SessionId string `json:"session_id" validate:"omitempty,uuid"`
	Mode      string `json:"mode" validate:"omitempty,oneof=inline background"`
}

// Chat handles POST /api/agent/chat, one user turn against Helena.
func (c *AgentController) Chat(ctx *fiber.Ctx) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}

	var req chatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	input := &service.AgentRunInput{
		Identity:     identity,
		Message:      req.Message,
		ModeOverride: req.Mode,
	}
	if req.AkteId != "" {
		id, _ := uuid.Parse(req.AkteId)
		input.AkteId = &id
	}
	if req.SessionId != "" {
		id, _ := uuid.Parse(req.SessionId)
		input.SessionId = &id
	}

	output, err := c.agentService.RunHelenaAgent(ctx.UserContext(), input)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if output.RateLimited {
		return ctx.Status(fiber.StatusTooManyRequests).
			JSON(serverutils.SuccessResponse("rate limited", output))
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", output))
}

// Sessions handles GET /api/agent/sessions.
func (c *AgentController) Sessions(ctx *fiber.Ctx) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}

	sessions, err := c.agentService.ListSessions(ctx.UserContext(), identity.UserID, ctx.QueryInt("limit"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", sessions))
}

// Messages handles GET /api/agent/sessions/:id/messages.
func (c *AgentController) Messages(ctx *fiber.Ctx) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}
	sessionId, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	messages, err := c.agentService.ListMessages(ctx.UserContext(), identity.UserID, sessionId)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if messages == nil {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", messages))
}
