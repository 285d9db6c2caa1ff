package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

// PageHandler serves the page payloads the UI renders. The route authorizer
// has already admitted the caller by the time these run.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// GET /
func (h *PageHandler) Home(c fiber.Ctx) error {
	return h.render(c, "home", nil)
}

// GET /login
func (h *PageHandler) Login(c fiber.Ctx) error {
	return h.render(c, "login", fiber.Map{"redirect": c.Query(access.RedirectParam)})
}

// GET /signup
func (h *PageHandler) SignUp(c fiber.Ctx) error {
	return h.render(c, "signup", nil)
}

// GET /super-admin
func (h *PageHandler) SuperAdmin(c fiber.Ctx) error {
	return h.render(c, "super-admin", nil)
}

// GET /owner
func (h *PageHandler) Owner(c fiber.Ctx) error {
	return h.render(c, "owner", nil)
}

// GET /member
func (h *PageHandler) Member(c fiber.Ctx) error {
	return h.render(c, "member", nil)
}

func (h *PageHandler) render(c fiber.Ctx, name string, props fiber.Map) error {
	p := reqctx.PrincipalFromContext(c.Context())
	payload := fiber.Map{
		"page":      name,
		"path":      c.Path(),
		"principal": toPrincipalDTO(p),
	}
	if props != nil {
		payload["props"] = props
	}
	return ok(c, payload)
}
