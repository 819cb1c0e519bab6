package server

import (
	"kanzlei-ai-be/internal/config"
	"kanzlei-ai-be/internal/controller"
	"kanzlei-ai-be/internal/pkg/serverutils"
	"kanzlei-ai-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Controllers struct {
	Agent        *controller.AgentController
	Draft        *controller.DraftController
	Notification *controller.NotificationController
	Usage        *controller.UsageController
}

type Server struct {
	app *fiber.App
	cfg *config.Config
}

func New(cfg *config.Config, ctrl Controllers, hub *websocket.Hub) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "kanzlei-ai-be",
		DisableStartupMessage: cfg.App.Environment == "production",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Use(serverutils.ErrorHandlerMiddleware())

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", serverutils.JwtMiddleware)

	agent := api.Group("/agent")
	agent.Post("/chat", ctrl.Agent.Chat)
	agent.Get("/sessions", ctrl.Agent.Sessions)
	agent.Get("/sessions/:id/messages", ctrl.Agent.Messages)
	agent.Get("/usage", ctrl.Usage.Summary)

	api.Get("/akten/:id/drafts", ctrl.Draft.ListByAkte)
	drafts := api.Group("/drafts")
	drafts.Get("/:id", ctrl.Draft.Get)
	drafts.Post("/:id/approve", ctrl.Draft.Approve)
	drafts.Post("/:id/reject", ctrl.Draft.Reject)

	notifications := api.Group("/notifications")
	notifications.Get("/", ctrl.Notification.List)
	notifications.Post("/read-all", ctrl.Notification.MarkAllRead)
	notifications.Post("/:id/read", ctrl.Notification.MarkRead)

	// Live progress channel, same JWT identity as the REST surface.
	app.Use("/ws/agent", serverutils.JwtMiddleware, websocket.UpgradeRequired)
	app.Get("/ws/agent", websocket.Handler(hub))

	return &Server{app: app, cfg: cfg}
}

func (s *Server) Listen() error {
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
