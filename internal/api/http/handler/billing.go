package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/service/billing"
)

type BillingHandler struct {
	svc billing.Service
}

func NewBillingHandler(svc billing.Service) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// POST /api/webhooks/billing
func (h *BillingHandler) Webhook(c fiber.Ctx) error {
	e, err := h.svc.Receive(c.Context(), c.Body(), c.Get(billing.SignatureHeader))
	switch {
	case err == nil:
	case errors.Is(err, billing.ErrNotConfigured):
		return fail(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, billing.ErrMissingSignature),
		errors.Is(err, billing.ErrBadSignature),
		errors.Is(err, billing.ErrStaleSignature):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, billing.ErrInvalidEvent):
		return badRequest(c, err.Error())
	case errors.Is(err, billing.ErrGymNotFound):
		return notFound(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "billing webhook failed", "error", err)
		return internalError(c)
	}

	return respond(c, fiber.StatusAccepted, fiber.Map{"id": e.ID, "type": e.Type})
}
