package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/pkg/metrics"
)

type chatRequest struct {
	Message string `json:"message"`
}

// ChatHandler forwards one question to the legal assistant.
func ChatHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			metrics.ChatRequests.WithLabelValues("invalid").Inc()
			return errBadRequest(c, "invalid request body")
		}

		reply, err := deps.Chat.Ask(c.UserContext(), req.Message)
		metrics.ChatRequests.WithLabelValues(chatOutcome(err)).Inc()
		if err != nil {
			return errorFrom(c, err)
		}
		c.Set("Cache-Control", "no-store")
		return c.JSON(fiber.Map{"reply": reply})
	}
}

func chatOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrUpstreamTimed):
		return "timeout"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream_error"
	}
	return "error"
}
