package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/api/http/handler"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
)

func (r *Router) registerSiteRoutes(app *fiber.App, h *handler.SiteHandler) {
	prefix := r.p.Cfg.Platform.SitesPrefix
	app.Get(prefix+"/:key", h.Show)
	app.Get(prefix+"/:key/*", h.Show)
}

func (r *Router) registerPageRoutes(app *fiber.App, h *handler.PageHandler) {
	app.Get(access.PathPlatformHome, h.Home)
	app.Get(access.PathLogin, h.Login)
	app.Get(access.PathSignup, h.SignUp)
	app.Get(access.PathAdminHome, h.SuperAdmin)
	app.Get(access.PathOwnerHome, h.Owner)
	app.Get(access.PathMemberHome, h.Member)
}
