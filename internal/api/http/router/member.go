package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/api/http/handler"
)

// registerMemberRoutes mounts the member API. The zone admits every
// authenticated principal, so no role guard sits on the group.
func (r *Router) registerMemberRoutes(api fiber.Router, h *handler.MemberHandler) {
	group := api.Group("/member")
	group.Get("/profile", h.GetProfile)
	group.Patch("/profile", h.UpdateProfile)
}

func (r *Router) registerWebhookRoutes(api fiber.Router, h *handler.BillingHandler) {
	api.Post("/webhooks/billing", h.Webhook)
}
