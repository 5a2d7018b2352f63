package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Handlers that set their own header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if len(c.Response().Header.Peek(fiber.HeaderCacheControl)) > 0 {
			return err
		}

		if ttl := cacheControlFor(c.Path()); ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}

func cacheControlFor(path string) string {
	path = strings.TrimPrefix(path, "/v1")
	switch {
	case path == "/health" || path == "/ready" || path == "/ping":
		return "public, max-age=10"
	case path == "/metrics" || strings.HasPrefix(path, "/debug"):
		return "no-cache"
	case strings.HasPrefix(path, "/firs"):
		return "private, no-cache" // complainant data
	case strings.HasPrefix(path, "/acts") || path == "/articles" || path == "/cases":
		return "public, max-age=3600" // only changes on import
	case strings.HasPrefix(path, "/states") || strings.HasPrefix(path, "/districts"):
		return "public, max-age=3600"
	case path == "/lawyers" || path == "/police-stations/nearby":
		return "public, max-age=300"
	case path == "/graphql":
		return "private, max-age=0"
	}
	return ""
}
