package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/authorize"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

const LocalsGymID = "gym_id"

// RequireRole rejects callers whose real role is not one of roles.
func RequireRole(roles ...access.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		p := reqctx.PrincipalFromContext(c.Context())
		if !p.Authenticated {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		if !p.Role.In(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient role"})
		}
		return c.Next()
	}
}

// GymScope pins the request to a gym. Gym roles always act in their own gym;
// a super admin names the target with the gym_id query parameter.
func GymScope() fiber.Handler {
	return func(c fiber.Ctx) error {
		p := reqctx.PrincipalFromContext(c.Context())

		if p.Role == access.RoleSuperAdmin {
			raw := c.Query("gym_id")
			if raw == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "gym_id is required"})
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid gym_id"})
			}
			c.Locals(LocalsGymID, id)
			return c.Next()
		}

		if !p.HasGym() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "no gym associated with this account"})
		}
		c.Locals(LocalsGymID, *p.GymID)
		return c.Next()
	}
}

// GymIDFromFiber returns the gym set by GymScope.
func GymIDFromFiber(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalsGymID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// RequirePermission checks the casbin policy for resource/action inside the
// gym set by GymScope, or at platform level when no gym is scoped.
func RequirePermission(authz authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		gymID, _ := GymIDFromFiber(c)
		p := reqctx.PrincipalFromContext(c.Context())

		err := authorize.AuthorizePrincipal(c.Context(), authz, p, gymID, resource, action)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, authorize.ErrNoSubjectInContext):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		case errors.Is(err, authorize.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "permission denied"})
		default:
			return err
		}
	}
}
