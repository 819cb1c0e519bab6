package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// UpgradeRequired rejects plain HTTP requests on the websocket route.
func UpgradeRequired(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades the connection and binds it to the authenticated user.
// Must run behind the JWT middleware so user_id is present in Locals.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		raw, _ := conn.Locals("user_id").(string)
		userId, err := uuid.Parse(raw)
		if err != nil {
			conn.Close()
			return
		}

		client := NewClient(userId, conn)
		hub.Register(client)

		go client.WritePump()
		client.ReadPump(hub)
	})
}
