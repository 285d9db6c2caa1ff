package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/api/http/handler"
	"github.com/techforgyms/techforgyms_backend/internal/api/http/middleware"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/authorize"
)

func (r *Router) registerAdminRoutes(
	api fiber.Router,
	h *handler.AdminHandler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/admin", middleware.RequireRole(access.RoleSuperAdmin))

	group.Get("/gyms", requirePerm(authorize.ResourcePlatform, authorize.ActionList), h.ListGyms)
	group.Patch("/gyms/:id/suspension", requirePerm(authorize.ResourcePlatform, authorize.ActionManage), h.SetSuspension)
	group.Patch("/profiles/:id/role", requirePerm(authorize.ResourcePlatform, authorize.ActionManage), h.SetRole)

	group.Post("/impersonation", h.BeginImpersonation)
	group.Delete("/impersonation", h.EndImpersonation)
}
