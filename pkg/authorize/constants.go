package authorize

import (
	"strings"

	"github.com/google/uuid"
)

type (
	Action       string
	Resource     string
	Role         string
	Domain       string
	PolicyEffect string
)

// Wildcards are only valid in stored policies, never in an enforce request.
const (
	WildcardAction   Action   = "*"
	WildcardResource Resource = "*"
	WildcardRole     Role     = "*"
	WildcardDomain   Domain   = "*"
)

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
	// ActionManage is seed shorthand for create, read, update, delete and list.
	ActionManage Action = "manage"
)

const (
	ResourceGym         Resource = "gym"
	ResourceGymSettings Resource = "gym_settings"
	ResourceMember      Resource = "member"
	ResourceStaff       Resource = "staff"
	ResourceProfile     Resource = "profile"
	ResourceBilling     Resource = "billing"
	ResourcePlatform    Resource = "platform"
)

// Policy subjects. A principal acts as the subject matching its profile role,
// inside the domain of its own gym.
const (
	RolePlatformSuperAdmin Role = "role:platform:superadmin"
	RoleGymOwner           Role = "role:gym:owner"
	RoleGymManager         Role = "role:gym:manager"
	RoleGymStaff           Role = "role:gym:staff"
	RoleGymMember          Role = "role:gym:member"
)

const (
	DomainSys       Domain = "sys"
	DomainPrefixGym Domain = "gym:"

	allGyms = DomainPrefixGym + "*"
)

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

func (a Action) known() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList, ActionManage:
		return true
	}
	return false
}

func (r Resource) known() bool {
	switch r {
	case ResourceGym, ResourceGymSettings, ResourceMember, ResourceStaff,
		ResourceProfile, ResourceBilling, ResourcePlatform:
		return true
	}
	return false
}

func (r Role) known() bool {
	switch r {
	case RolePlatformSuperAdmin, RoleGymOwner, RoleGymManager, RoleGymStaff, RoleGymMember:
		return true
	}
	return false
}

func GymDomain(gymID uuid.UUID) Domain {
	return DomainPrefixGym + Domain(gymID.String())
}

// IsValidDomain accepts sys, the wildcards and gym:<uuid> in canonical form.
func IsValidDomain(d Domain) bool {
	switch d {
	case DomainSys, WildcardDomain, allGyms:
		return true
	}
	id, ok := strings.CutPrefix(string(d), string(DomainPrefixGym))
	if !ok || len(id) != 36 {
		return false
	}
	return uuid.Validate(id) == nil
}

// PermissionPolicy is one p row: subject, domain, object, action, effect.
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}

func (p PermissionPolicy) row() []any {
	return []any{string(p.Subject), string(p.Domain), string(p.Object), string(p.Action), string(p.Effect)}
}
