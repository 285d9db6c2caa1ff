// Package impersonation holds the "view as gym" state a super admin carries
// while inspecting a tenant. The state lives on the client; the server uses it
// only to describe the session back to the UI and never to authorize.
package impersonation

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/pkg/access"
)

var (
	ErrNotSuperAdmin = errors.New("only a super admin can impersonate")
	ErrInvalidTarget = errors.New("impersonation target must be a known non-admin role")
	ErrMissingGym    = errors.New("impersonation requires a gym")
)

// Override is the impersonated view. RealUserID ties it to the admin who began it.
type Override struct {
	GymID      uuid.UUID   `json:"gym_id"`
	Role       access.Role `json:"role"`
	RealUserID uuid.UUID   `json:"real_user_id"`
	StartedAt  time.Time   `json:"started_at"`
}

// Context keeps the real principal and the override side by side.
type Context struct {
	Real     access.Principal
	Override *Override
}

func New(real access.Principal) Context {
	return Context{Real: real}
}

// Begin starts impersonating role inside gymID. The real principal is untouched.
func (c Context) Begin(gymID uuid.UUID, role access.Role, now time.Time) (Context, error) {
	if !c.Real.Authenticated || c.Real.Role != access.RoleSuperAdmin {
		return c, ErrNotSuperAdmin
	}
	if !role.Known() || role == access.RoleSuperAdmin {
		return c, ErrInvalidTarget
	}
	if gymID == uuid.Nil {
		return c, ErrMissingGym
	}
	return Context{
		Real: c.Real,
		Override: &Override{
			GymID:      gymID,
			Role:       role,
			RealUserID: c.Real.UserID,
			StartedAt:  now.UTC(),
		},
	}, nil
}

// End drops the override.
func (c Context) End() Context {
	return Context{Real: c.Real}
}

func (c Context) Active() bool {
	return c.Override != nil
}

// EffectiveRole is the role the UI should render for.
func (c Context) EffectiveRole() access.Role {
	if c.Override != nil {
		return c.Override.Role
	}
	return c.Real.Role
}

// EffectiveGymID is the gym the UI should render for, nil when none.
func (c Context) EffectiveGymID() *uuid.UUID {
	if c.Override != nil {
		id := c.Override.GymID
		return &id
	}
	return c.Real.GymID
}
