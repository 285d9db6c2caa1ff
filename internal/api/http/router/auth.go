package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler, session *handler.SessionHandler, loginLimiter fiber.Handler) {
	group := api.Group("/auth")
	group.Post("/signup", loginLimiter, h.SignUp)
	group.Post("/login", loginLimiter, h.Login)
	group.Post("/logout", h.Logout)

	api.Get("/session", session.Get)
}
