package serverutils

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts uncaught handler errors into a uniform
// JSON envelope. Fiber errors keep their status code, everything else is 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		}

		log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
