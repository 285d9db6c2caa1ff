package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/service/gym"
)

const suspendedRetryAfter = "3600"

type SiteHandler struct {
	gyms gym.Service
}

func NewSiteHandler(gyms gym.Service) *SiteHandler {
	return &SiteHandler{gyms: gyms}
}

// GET /sites/:key and /sites/:key/*
func (h *SiteHandler) Show(c fiber.Ctx) error {
	g, err := h.gyms.ResolveSite(c.Context(), c.Params("key"))
	switch {
	case errors.Is(err, gym.ErrNotFound):
		return notFound(c, "site not found")
	case errors.Is(err, gym.ErrSuspended):
		c.Set(fiber.HeaderRetryAfter, suspendedRetryAfter)
		return fail(c, fiber.StatusServiceUnavailable, "this site is temporarily unavailable")
	case err != nil:
		slog.ErrorContext(c.Context(), "resolve site", "key", c.Params("key"), "error", err)
		return internalError(c)
	}

	return ok(c, fiber.Map{
		"gym": fiber.Map{
			"name":          g.Name,
			"slug":          g.Slug,
			"custom_domain": g.CustomDomain,
			"tier":          g.Tier,
		},
		"path": "/" + c.Params("*"),
	})
}
