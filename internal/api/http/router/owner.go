package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/api/http/handler"
	"github.com/techforgyms/techforgyms_backend/internal/api/http/middleware"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/authorize"
)

func (r *Router) registerOwnerRoutes(
	api fiber.Router,
	h *handler.OwnerHandler,
	gymScope fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/owner",
		middleware.RequireRole(access.RoleSuperAdmin, access.RoleGymOwner, access.RoleGymManager, access.RoleGymStaff),
		gymScope,
	)

	group.Get("/gym", requirePerm(authorize.ResourceGym, authorize.ActionRead), h.GetGym)
	group.Patch("/gym", requirePerm(authorize.ResourceGymSettings, authorize.ActionUpdate), h.UpdateGym)

	group.Get("/members", requirePerm(authorize.ResourceMember, authorize.ActionList), h.ListMembers)
	group.Post("/members", requirePerm(authorize.ResourceMember, authorize.ActionCreate), h.AddMember)
	group.Patch("/members/:id", requirePerm(authorize.ResourceMember, authorize.ActionUpdate), h.UpdateMember)
	group.Delete("/members/:id", requirePerm(authorize.ResourceMember, authorize.ActionDelete), h.RemoveMember)

	group.Get("/staff", requirePerm(authorize.ResourceStaff, authorize.ActionList), h.ListStaff)
	group.Post("/staff", requirePerm(authorize.ResourceStaff, authorize.ActionCreate), h.AddStaff)
	group.Delete("/staff/:id", requirePerm(authorize.ResourceStaff, authorize.ActionDelete), h.RemoveStaff)
}
