package authorize

import (
	"context"
	"log/slog"
)

var crud = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList}

// DefaultPolicies is the baseline policy set. Gym policies are written for
// every gym domain; Scope pins the principal to its own gym before enforcing.
func DefaultPolicies() []PermissionPolicy {
	gyms := allGyms

	var out []PermissionPolicy
	var add func(role Role, dom Domain, obj Resource, acts ...Action)
	add = func(role Role, dom Domain, obj Resource, acts ...Action) {
		for _, act := range acts {
			if act == ActionManage {
				add(role, dom, obj, crud...)
				continue
			}
			out = append(out, PermissionPolicy{role, dom, obj, act, EffectAllow})
		}
	}

	// Platform
	add(RolePlatformSuperAdmin, WildcardDomain, WildcardResource, WildcardAction)

	// Owner: everything inside the gym
	add(RoleGymOwner, gyms, ResourceGym, ActionRead, ActionUpdate)
	add(RoleGymOwner, gyms, ResourceGymSettings, ActionRead, ActionUpdate)
	add(RoleGymOwner, gyms, ResourceMember, ActionManage)
	add(RoleGymOwner, gyms, ResourceStaff, ActionManage)
	add(RoleGymOwner, gyms, ResourceBilling, ActionRead)
	add(RoleGymOwner, gyms, ResourceProfile, ActionRead, ActionUpdate)

	// Manager: runs the floor, no staff or billing changes
	add(RoleGymManager, gyms, ResourceGym, ActionRead, ActionUpdate)
	add(RoleGymManager, gyms, ResourceGymSettings, ActionRead)
	add(RoleGymManager, gyms, ResourceMember, ActionManage)
	add(RoleGymManager, gyms, ResourceStaff, ActionRead, ActionList)
	add(RoleGymManager, gyms, ResourceProfile, ActionRead, ActionUpdate)

	// Staff: front desk
	add(RoleGymStaff, gyms, ResourceGym, ActionRead)
	add(RoleGymStaff, gyms, ResourceMember, ActionRead, ActionList, ActionCreate, ActionUpdate)
	add(RoleGymStaff, gyms, ResourceStaff, ActionList)
	add(RoleGymStaff, gyms, ResourceProfile, ActionRead, ActionUpdate)

	// Member: own profile only
	add(RoleGymMember, gyms, ResourceGym, ActionRead)
	add(RoleGymMember, gyms, ResourceProfile, ActionRead, ActionUpdate)

	return out
}

// SeedDefaultPolicies sets up the baseline policies. Safe to run repeatedly.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	policies := DefaultPolicies()
	added := 0
	for _, p := range policies {
		ok, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if ok {
			added++
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(policies), "added", added)
	return nil
}
