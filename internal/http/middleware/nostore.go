package middleware

import "github.com/gofiber/fiber/v2"

// NoStore marks responses as uncacheable. Question draws and results are
// per-user and must never be served from a shared cache.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}
