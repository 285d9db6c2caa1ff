package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/api/http/middleware"
	"github.com/techforgyms/techforgyms_backend/internal/service/gym"
	"github.com/techforgyms/techforgyms_backend/internal/service/member"
	"github.com/techforgyms/techforgyms_backend/internal/service/staff"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

// OwnerHandler serves the gym management API. Every handler runs behind
// GymScope, so the gym always comes from the session and never the URL.
type OwnerHandler struct {
	gyms    gym.Service
	members member.Service
	staff   staff.Service
}

func NewOwnerHandler(gyms gym.Service, members member.Service, staff staff.Service) *OwnerHandler {
	return &OwnerHandler{gyms: gyms, members: members, staff: staff}
}

// GET /api/owner/gym
func (h *OwnerHandler) GetGym(c fiber.Ctx) error {
	gymID, _ := middleware.GymIDFromFiber(c)
	g, err := h.gyms.Get(c.Context(), gymID)
	if err != nil {
		return mapOwnerError(c, err)
	}
	return ok(c, toGymDTO(g))
}

// PATCH /api/owner/gym
func (h *OwnerHandler) UpdateGym(c fiber.Ctx) error {
	gymID, _ := middleware.GymIDFromFiber(c)
	var body struct {
		Name         *string `json:"name"`
		CustomDomain *string `json:"custom_domain"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	g, err := h.gyms.Update(c.Context(), gymID, gym.UpdateRequest{
		Name:         body.Name,
		CustomDomain: body.CustomDomain,
	})
	if err != nil {
		return mapOwnerError(c, err)
	}
	return ok(c, toGymDTO(g))
}

// GET /api/owner/members
func (h *OwnerHandler) ListMembers(c fiber.Ctx) error {
	gymID, _ := middleware.GymIDFromFiber(c)
	limit, offset := page(c)
	list, err := h.members.List(c.Context(), gymID, limit, offset)
	if err != nil {
		return mapOwnerError(c, err)
	}
	return ok(c, toProfileDTOs(list))
}

// POST /api/owner/members
func (h *OwnerHandler) AddMember(c fiber.Ctx) error {
	gymID, _ := middleware.GymIDFromFiber(c)
	var body struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.members.Add(c.Context(), gymID, member.AddRequest{
		Email:    body.Email,
		FullName: body.FullName,
		Phone:    body.Phone,
	})
	if err != nil {
		return mapOwnerError(c, err)
	}
	return created(c, toProfileDTO(p))
}

// PATCH /api/owner/members/:id
func (h *OwnerHandler) UpdateMember(c fiber.Ctx) error {
	gymID, _ := middleware.GymIDFromFiber(c)
	id, valid := paramUUID(c, "id")
	if !valid {
		return badRequest(c, "invalid member id")
	}
	var body struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.members.Update(c.Context(), gymID, id, member.UpdateRequest{
		FullName: body.FullName,
		Phone:    body.Phone,
	})
	if err != nil {
		return mapOwnerError(c, err)
	}
	return ok(c, toProfileDTO(p))
}

// DELETE /api/owner/members/:id
func (h *OwnerHandler) RemoveMember(c fiber.Ctx) error {
	gymID, _ := middleware.GymIDFromFiber(c)
	id, valid := paramUUID(c, "id")
	if !valid {
		return badRequest(c, "invalid member id")
	}
	if err := h.members.Remove(c.Context(), gymID, id); err != nil {
		return mapOwnerError(c, err)
	}
	return noContent(c)
}

// GET /api/owner/staff
func (h *OwnerHandler) ListStaff(c fiber.Ctx) error {
	gymID, _ := middleware.GymIDFromFiber(c)
	list, err := h.staff.List(c.Context(), gymID)
	if err != nil {
		return mapOwnerError(c, err)
	}
	return ok(c, toProfileDTOs(list))
}

// POST /api/owner/staff
func (h *OwnerHandler) AddStaff(c fiber.Ctx) error {
	gymID, _ := middleware.GymIDFromFiber(c)
	var body struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.staff.Add(c.Context(), gymID, h.inviterName(c), staff.AddRequest{
		Email:    body.Email,
		FullName: body.FullName,
		Role:     body.Role,
	})
	if err != nil {
		return mapOwnerError(c, err)
	}
	return created(c, toProfileDTO(p))
}

// DELETE /api/owner/staff/:id
func (h *OwnerHandler) RemoveStaff(c fiber.Ctx) error {
	gymID, _ := middleware.GymIDFromFiber(c)
	id, valid := paramUUID(c, "id")
	if !valid {
		return badRequest(c, "invalid staff id")
	}
	if err := h.staff.Remove(c.Context(), gymID, id); err != nil {
		return mapOwnerError(c, err)
	}
	return noContent(c)
}

// inviterName is best effort; the invite goes out without it.
func (h *OwnerHandler) inviterName(c fiber.Ctx) string {
	userID, found := reqctx.UserIDFromContext(c.Context())
	if !found {
		return ""
	}
	p, err := h.members.Profile(c.Context(), userID)
	if err != nil {
		return ""
	}
	return p.FullName
}

func mapOwnerError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gym.ErrNotFound),
		errors.Is(err, member.ErrNotFound),
		errors.Is(err, staff.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, gym.ErrDomainTaken),
		errors.Is(err, member.ErrEmailTaken),
		errors.Is(err, staff.ErrOtherGym),
		errors.Is(err, staff.ErrNotPromotable):
		return conflict(c, err.Error())
	case errors.Is(err, gym.ErrInvalidName),
		errors.Is(err, gym.ErrInvalidDomain),
		errors.Is(err, gym.ErrPlatformDomain),
		errors.Is(err, member.ErrInvalidEmail),
		errors.Is(err, member.ErrInvalidPhone),
		errors.Is(err, member.ErrNameRequired),
		errors.Is(err, staff.ErrInvalidRole),
		errors.Is(err, staff.ErrInvalidEmail):
		return badRequest(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "owner request failed", "error", err)
		return internalError(c)
	}
}
