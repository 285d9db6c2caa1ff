package reqctx

import (
	"context"

	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/pkg/access"
)

// WithPrincipal stores the request principal in the context.
func WithPrincipal(ctx context.Context, p access.Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, p)
}

// PrincipalFromContext returns the request principal, or an anonymous one
// when the session gate did not run.
func PrincipalFromContext(ctx context.Context) access.Principal {
	p, ok := ctx.Value(keyPrincipal).(access.Principal)
	if !ok {
		return access.Anonymous()
	}
	return p
}

// IsAuthenticated reports whether the request carries an authenticated principal.
func IsAuthenticated(ctx context.Context) bool {
	return PrincipalFromContext(ctx).Authenticated
}

// UserIDFromContext returns uuid.Nil and false for anonymous requests.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	p := PrincipalFromContext(ctx)
	if !p.Authenticated {
		return uuid.Nil, false
	}
	return p.UserID, true
}

// GymIDFromContext returns the principal's gym, if any.
func GymIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	p := PrincipalFromContext(ctx)
	if !p.HasGym() {
		return uuid.Nil, false
	}
	return *p.GymID, true
}

func WithSessionID(ctx context.Context, sid uuid.UUID) context.Context {
	return context.WithValue(ctx, keySession, sid)
}

func SessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	sid, ok := ctx.Value(keySession).(uuid.UUID)
	return sid, ok
}
