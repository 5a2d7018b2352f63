package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errUnauthorized returns a 401 error.
func errUnauthorized(c *fiber.Ctx, msg string) error {
	return newError(c, 401, "unauthorized", msg)
}

// errForbidden returns a 403 error.
func errForbidden(c *fiber.Ctx, msg string) error {
	return newError(c, 403, "forbidden", msg)
}

// errConflict returns a 409 error.
func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, 409, "conflict", msg)
}

// errorFrom maps a service error onto the matching API error. Anything that
// is not a known domain error is logged and reported as a 500 without detail.
func errorFrom(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return errBadRequest(c, clientMessage(err, domain.ErrInvalidInput))
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, clientMessage(err, domain.ErrNotFound))
	case errors.Is(err, domain.ErrUnauthorized):
		return errUnauthorized(c, clientMessage(err, domain.ErrUnauthorized))
	case errors.Is(err, domain.ErrConflict):
		return errConflict(c, clientMessage(err, domain.ErrConflict))
	case errors.Is(err, domain.ErrUnavailable):
		return newError(c, 503, "service_unavailable", clientMessage(err, domain.ErrUnavailable))
	case errors.Is(err, domain.ErrUpstreamTimed):
		return newError(c, 504, "upstream_timeout", "upstream service timed out")
	case errors.Is(err, domain.ErrUpstream):
		LoggerFromCtx(c.UserContext()).Warn("upstream error", "path", c.Path(), "error", err)
		return newError(c, 502, "bad_gateway", "upstream service error")
	}
	LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return errInternal(c, "internal server error")
}

// clientMessage drops the sentinel text so "invalid input: x" reads as "x".
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
