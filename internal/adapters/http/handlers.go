package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// IndexHandler lists the main endpoints.
func IndexHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Legal Library Backend Running",
			"version": apiVersion,
			"endpoints": fiber.Map{
				"acts":     "/v1/acts",
				"articles": "/v1/articles",
				"cases":    "/v1/cases",
				"lawyers":  "/v1/lawyers",
				"chat":     "/v1/chat",
				"states":   "/v1/states",
				"stations": "/v1/police-stations/nearby",
				"firs":     "/v1/firs",
				"auth": fiber.Map{
					"signup": "/v1/auth/signup",
					"login":  "/v1/auth/login",
					"verify": "/v1/auth/verify-token",
				},
				"graphql": "/graphql",
				"ws":      "/ws",
				"docs":    "/docs",
			},
		})
	}
}

// PingHandler answers with pong and the server time.
func PingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "pong",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// DBStatusHandler lists the tables the API can see.
func DBStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return newError(c, 503, "service_unavailable", "database not connected")
		}
		tables, err := deps.DB.TableNames(c.UserContext())
		if err != nil {
			return errorFrom(c, err)
		}
		c.Set("Cache-Control", "no-store")
		return c.JSON(fiber.Map{
			"status": "connected",
			"tables": tables,
		})
	}
}
