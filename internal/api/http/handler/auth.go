package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/api/http/middleware"
	"github.com/techforgyms/techforgyms_backend/internal/service/auth"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
	"github.com/techforgyms/techforgyms_backend/pkg/util/password"
	"github.com/techforgyms/techforgyms_backend/pkg/util/slug"
)

type AuthHandler struct {
	svc   auth.Service
	authz *access.Authorizer
	jar   middleware.CookieJar
}

func NewAuthHandler(svc auth.Service, authz *access.Authorizer, jar middleware.CookieJar) *AuthHandler {
	return &AuthHandler{svc: svc, authz: authz, jar: jar}
}

// POST /api/auth/signup
func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
		GymName  string `json:"gym_name"`
		GymSlug  string `json:"gym_slug"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.svc.SignUp(c.Context(), auth.SignUpRequest{
		Email:    body.Email,
		Password: body.Password,
		FullName: body.FullName,
		Role:     body.Role,
		GymName:  body.GymName,
		GymSlug:  body.GymSlug,
	})
	if err != nil {
		return mapAuthError(c, err)
	}

	h.jar.SetTokens(c, res.Tokens)
	home, _ := access.RoleHome(res.Principal.Role)
	return created(c, fiber.Map{
		"user":     toProfileDTO(res.Profile),
		"gym":      toGymDTO(res.Gym),
		"redirect": home,
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Redirect string `json:"redirect"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Redirect == "" {
		body.Redirect = c.Query(access.RedirectParam)
	}

	res, err := h.svc.SignIn(c.Context(), body.Email, body.Password)
	if err != nil {
		return mapAuthError(c, err)
	}

	h.jar.SetTokens(c, res.Tokens)
	return ok(c, fiber.Map{
		"user":     toPrincipalDTO(res.Principal),
		"redirect": h.authz.SafeReturnPath(body.Redirect, res.Principal),
	})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sid, found := reqctx.SessionIDFromContext(c.Context()); found {
		if err := h.svc.SignOut(c.Context(), sid); err != nil {
			slog.WarnContext(c.Context(), "sign out failed", "error", err)
		}
	}
	h.jar.Clear(c)
	return noContent(c)
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrNotConfigured):
		return fail(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrSlugTaken):
		return conflict(c, err.Error())
	case errors.Is(err, auth.ErrGymNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrInvalidSignupRole),
		errors.Is(err, auth.ErrGymNameRequired),
		errors.Is(err, password.ErrTooShort),
		errors.Is(err, password.ErrTooLong),
		errors.Is(err, password.ErrBlank),
		errors.Is(err, slug.ErrInvalid),
		errors.Is(err, slug.ErrReserved):
		return badRequest(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "auth request failed", "error", err)
		return internalError(c)
	}
}
