package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/api/http/middleware"
	"github.com/techforgyms/techforgyms_backend/pkg/impersonation"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

type SessionHandler struct {
	jar middleware.CookieJar
}

func NewSessionHandler(jar middleware.CookieJar) *SessionHandler {
	return &SessionHandler{jar: jar}
}

// GET /api/session
//
// Describes the session to the UI: the real principal plus the effective
// view when a super admin is impersonating.
func (h *SessionHandler) Get(c fiber.Ctx) error {
	p := reqctx.PrincipalFromContext(c.Context())

	ic, err := impersonation.Decode(p, h.jar.Impersonation(c))
	if err != nil {
		slog.DebugContext(c.Context(), "dropping malformed impersonation cookie", "error", err)
		h.jar.SetImpersonation(c, "")
	}

	var started any
	if ic.Active() {
		started = ic.Override.StartedAt
	}
	return ok(c, fiber.Map{
		"principal":        toPrincipalDTO(p),
		"impersonating":    ic.Active(),
		"effective_role":   ic.EffectiveRole().String(),
		"effective_gym_id": ic.EffectiveGymID(),
		"started_at":       started,
	})
}
