package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
	"github.com/nyayasahayak/legallibrary/internal/pkg/metrics"
)

type statusUpdateRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// FileFIRHandler stores a new FIR. Station assignment and acknowledgement
// happen asynchronously in the intake workflow.
func FileFIRHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.FileFIRRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		fir, err := deps.FIRs.File(c.UserContext(), req)
		if err != nil {
			return errorFrom(c, err)
		}
		metrics.FIRsFiled.WithLabelValues(fir.StateCode).Inc()

		c.Location("/v1/firs/" + fir.ID)
		return c.Status(fiber.StatusCreated).JSON(fir)
	}
}

// ListFIRsHandler returns the FIRs filed with the caller's email, newest
// first. It sits behind RequireAuth.
func ListFIRsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := TokenFromCtx(c)
		if tok == nil || tok.Email == "" {
			return errForbidden(c, "token carries no email")
		}
		if q := strings.TrimSpace(c.Query("email")); q != "" && !strings.EqualFold(q, tok.Email) {
			return errForbidden(c, "FIRs can only be listed for your own email")
		}
		firs, err := deps.FIRs.ListByEmail(c.UserContext(), tok.Email)
		if err != nil {
			return errorFrom(c, err)
		}
		c.Set("Cache-Control", "private, no-cache")
		return paginate(c, firs, 20, 100)
	}
}

// GetFIRHandler returns one FIR with its status history, without contact
// details.
func GetFIRHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fir, err := deps.FIRs.Track(c.UserContext(), c.Params("id"))
		if err != nil {
			return errorFrom(c, err)
		}
		c.Set("Cache-Control", "private, no-cache")
		return c.JSON(fir.Public())
	}
}

// UpdateFIRStatusHandler moves an FIR along its lifecycle. It sits behind
// RequireAuth.
func UpdateFIRStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req statusUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Status == "" {
			return errBadRequest(c, "status is required")
		}

		fir, err := deps.FIRs.UpdateStatus(c.UserContext(), c.Params("id"), domain.FIRStatus(req.Status), req.Note)
		if err != nil {
			return errorFrom(c, err)
		}
		metrics.FIRStatusChanges.WithLabelValues(string(fir.Status)).Inc()

		if tok := TokenFromCtx(c); tok != nil {
			LoggerFromCtx(c.UserContext()).Info("fir status updated",
				"fir_id", fir.ID, "status", fir.Status, "by", tok.UID)
		}
		return c.JSON(fir)
	}
}
