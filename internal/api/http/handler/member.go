package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/service/member"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

type MemberHandler struct {
	members member.Service
}

func NewMemberHandler(members member.Service) *MemberHandler {
	return &MemberHandler{members: members}
}

// GET /api/member/profile
func (h *MemberHandler) GetProfile(c fiber.Ctx) error {
	userID, found := reqctx.UserIDFromContext(c.Context())
	if !found {
		return unauthorized(c)
	}
	p, err := h.members.Profile(c.Context(), userID)
	if err != nil {
		return mapOwnerError(c, err)
	}
	return ok(c, toProfileDTO(p))
}

// PATCH /api/member/profile
func (h *MemberHandler) UpdateProfile(c fiber.Ctx) error {
	userID, found := reqctx.UserIDFromContext(c.Context())
	if !found {
		return unauthorized(c)
	}
	var body struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.members.UpdateProfile(c.Context(), userID, member.UpdateRequest{
		FullName: body.FullName,
		Phone:    body.Phone,
	})
	if err != nil {
		return mapOwnerError(c, err)
	}
	return ok(c, toProfileDTO(p))
}
