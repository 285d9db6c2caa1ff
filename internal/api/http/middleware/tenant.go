package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/pkg/hostroute"
	"github.com/techforgyms/techforgyms_backend/pkg/observability"
)

const LocalsTenantKey = "tenant_key"

// DomainResolver rewrites tenant-hosted requests onto the tenant-site
// namespace before routing. Platform hosts and excluded paths pass through.
func DomainResolver(r *hostroute.Resolver) fiber.Handler {
	return func(c fiber.Ctx) error {
		res := r.Resolve(c.Host(), c.Path())
		if !res.Rewrite {
			return c.Next()
		}

		c.Path(res.Path)
		c.Locals(LocalsTenantKey, res.TenantKey)
		if meta, ok := RequestMetaFromFiber(c); ok {
			meta.Tenant = res.TenantKey
		}
		observability.Edge().Rewrite(c.Context(), res.CustomDomain)

		return c.Next()
	}
}

// TenantKeyFromFiber returns the tenant key set by DomainResolver.
func TenantKeyFromFiber(c fiber.Ctx) (string, bool) {
	key, ok := c.Locals(LocalsTenantKey).(string)
	return key, ok && key != ""
}
