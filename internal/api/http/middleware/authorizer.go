package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/service/auth"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/observability"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

// RouteAuthorizer applies the zone policy to every request. It must run after
// SessionGate so the principal is on the context.
func RouteAuthorizer(a *access.Authorizer, provider auth.Provider) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := c.Context()
		d := a.Evaluate(access.Request{
			Path:               c.Path(),
			RawQuery:           string(c.Request().URI().QueryString()),
			Principal:          reqctx.PrincipalFromContext(ctx),
			IdentityConfigured: provider.Configured(),
		})
		observability.Edge().Decision(ctx, d.Zone.String(), d.Kind.String())
		observability.AnnotateZone(c, d.Zone.String())

		switch {
		case d.Kind == access.Allow:
			return c.Next()
		case d.IsRedirect():
			return c.Redirect().Status(fiber.StatusFound).To(d.Location)
		default:
			return c.Status(d.Status).JSON(fiber.Map{"error": d.Message})
		}
	}
}
