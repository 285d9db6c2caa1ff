package access

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the closed set of platform roles. Values read from storage go through
// ParseRole; anything outside the set becomes RoleUnknown rather than being
// coerced into a known role.
type Role string

const (
	RoleUnknown    Role = ""
	RoleSuperAdmin Role = "super_admin"
	RoleGymOwner   Role = "gym_owner"
	RoleGymManager Role = "gym_manager"
	RoleGymStaff   Role = "gym_staff"
	RoleMember     Role = "member"
)

// KnownRoles lists every recognised role in privilege order.
var KnownRoles = []Role{RoleSuperAdmin, RoleGymOwner, RoleGymManager, RoleGymStaff, RoleMember}

// ParseRole maps s onto a known role, or RoleUnknown.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleSuperAdmin, RoleGymOwner, RoleGymManager, RoleGymStaff, RoleMember:
		return r
	default:
		return RoleUnknown
	}
}

// Known reports whether r is one of the recognised roles.
func (r Role) Known() bool {
	return ParseRole(string(r)) != RoleUnknown
}

// IsGymStaff reports whether r is one of the roles that run a gym day to day.
func (r Role) IsGymStaff() bool {
	switch r {
	case RoleGymOwner, RoleGymManager, RoleGymStaff:
		return true
	default:
		return false
	}
}

// In reports whether r is one of roles. RoleUnknown is never in any set.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate && r != RoleUnknown {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

// Principal is the caller of a request as re-derived from the session on every
// request. Anonymous callers have Authenticated == false.
type Principal struct {
	UserID        uuid.UUID
	Role          Role
	GymID         *uuid.UUID
	Authenticated bool
}

func Anonymous() Principal {
	return Principal{}
}

// HasGym reports whether the principal is linked to a gym.
func (p Principal) HasGym() bool {
	return p.GymID != nil && *p.GymID != uuid.Nil
}
