package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/internal/service/auth"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/observability"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

// SessionGate resolves the caller from the session cookies and attaches the
// principal to the request context. It never rejects a request: lookup
// failures degrade to an anonymous caller and the route authorizer decides.
func SessionGate(provider auth.Provider, jar CookieJar) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := c.Context()

		id, refreshed, err := provider.CurrentUser(ctx, jar.Tokens(c))
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrNotConfigured):
			// Expected in deployments without key material.
			id = auth.Identity{Principal: access.Anonymous()}
		default:
			slog.WarnContext(ctx, "session lookup failed, treating request as anonymous", "error", err)
			observability.Edge().Degraded(ctx, "session_lookup")
			id = auth.Identity{Principal: access.Anonymous()}
		}

		if refreshed != nil {
			jar.SetTokens(c, refreshed)
		}

		ctx = reqctx.WithPrincipal(ctx, id.Principal)
		if id.Principal.Authenticated {
			ctx = reqctx.WithSessionID(ctx, id.SessionID)
		}
		c.SetContext(ctx)

		return c.Next()
	}
}
