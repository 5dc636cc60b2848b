package middleware

import (
	"net"

	"github.com/gofiber/fiber/v2"
)

// LoopbackOnly rejects requests that did not originate on this machine.
// The API has no authentication, so it must never be reachable remotely even
// if HTTP_ADDR is misconfigured.
func LoopbackOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isLoopback(c.IP()) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Local access only",
			})
		}
		return c.Next()
	}
}

func isLoopback(addr string) bool {
	ip := net.ParseIP(addr)
	return ip != nil && ip.IsLoopback()
}
