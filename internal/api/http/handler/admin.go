package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/internal/api/http/middleware"
	"github.com/techforgyms/techforgyms_backend/internal/service/admin"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/impersonation"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

type AdminHandler struct {
	svc admin.Service
	jar middleware.CookieJar
	now func() time.Time
}

func NewAdminHandler(svc admin.Service, jar middleware.CookieJar) *AdminHandler {
	return &AdminHandler{svc: svc, jar: jar, now: time.Now}
}

// GET /api/admin/gyms
func (h *AdminHandler) ListGyms(c fiber.Ctx) error {
	limit, offset := page(c)
	gyms, err := h.svc.ListGyms(c.Context(), limit, offset)
	if err != nil {
		return mapAdminError(c, err)
	}
	out := make([]*gymDTO, 0, len(gyms))
	for _, g := range gyms {
		out = append(out, toGymDTO(g))
	}
	return ok(c, out)
}

// PATCH /api/admin/gyms/:id/suspension
func (h *AdminHandler) SetSuspension(c fiber.Ctx) error {
	id, valid := paramUUID(c, "id")
	if !valid {
		return badRequest(c, "invalid gym id")
	}
	var body struct {
		Suspended *bool `json:"suspended"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.Suspended == nil {
		return badRequest(c, "suspended is required")
	}

	if err := h.svc.SetSuspended(c.Context(), id, *body.Suspended); err != nil {
		return mapAdminError(c, err)
	}
	return noContent(c)
}

// PATCH /api/admin/profiles/:id/role
func (h *AdminHandler) SetRole(c fiber.Ctx) error {
	id, valid := paramUUID(c, "id")
	if !valid {
		return badRequest(c, "invalid profile id")
	}
	var body struct {
		Role  string     `json:"role"`
		GymID *uuid.UUID `json:"gym_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.svc.SetRole(c.Context(), id, body.Role, body.GymID); err != nil {
		return mapAdminError(c, err)
	}
	return noContent(c)
}

// POST /api/admin/impersonation
//
// Only the cookie changes: authorization keeps using the real principal.
func (h *AdminHandler) BeginImpersonation(c fiber.Ctx) error {
	var body struct {
		GymID uuid.UUID `json:"gym_id"`
		Role  string    `json:"role"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	ic, err := impersonation.New(reqctx.PrincipalFromContext(c.Context())).
		Begin(body.GymID, access.ParseRole(body.Role), h.now())
	switch {
	case errors.Is(err, impersonation.ErrNotSuperAdmin):
		return forbidden(c)
	case err != nil:
		return badRequest(c, err.Error())
	}

	value, err := impersonation.Encode(ic)
	if err != nil {
		slog.ErrorContext(c.Context(), "encode impersonation", "error", err)
		return internalError(c)
	}
	h.jar.SetImpersonation(c, value)

	return ok(c, fiber.Map{
		"effective_role":   ic.EffectiveRole().String(),
		"effective_gym_id": ic.EffectiveGymID(),
		"started_at":       ic.Override.StartedAt,
	})
}

// DELETE /api/admin/impersonation
func (h *AdminHandler) EndImpersonation(c fiber.Ctx) error {
	h.jar.SetImpersonation(c, "")
	return noContent(c)
}

func mapAdminError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, admin.ErrGymNotFound), errors.Is(err, admin.ErrProfileNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, admin.ErrInvalidRole),
		errors.Is(err, admin.ErrGymRequired),
		errors.Is(err, admin.ErrGymNotAllowed):
		return badRequest(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "admin request failed", "error", err)
		return internalError(c)
	}
}
