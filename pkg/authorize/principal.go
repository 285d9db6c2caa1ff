package authorize

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

var ErrNoSubjectInContext = errors.New("no subject found in context")

// PolicyRole maps a profile role onto its policy subject. Unknown roles have none.
func PolicyRole(r access.Role) (Role, bool) {
	switch r {
	case access.RoleSuperAdmin:
		return RolePlatformSuperAdmin, true
	case access.RoleGymOwner:
		return RoleGymOwner, true
	case access.RoleGymManager:
		return RoleGymManager, true
	case access.RoleGymStaff:
		return RoleGymStaff, true
	case access.RoleMember:
		return RoleGymMember, true
	default:
		return "", false
	}
}

// Scope resolves the subject and domain a principal acts in for gymID.
// Gym roles only ever act inside their own gym; the super admin acts in any.
func Scope(p access.Principal, gymID uuid.UUID) (Role, Domain, error) {
	if !p.Authenticated {
		return "", "", ErrNoSubjectInContext
	}
	role, ok := PolicyRole(p.Role)
	if !ok {
		return "", "", ErrForbidden
	}
	if role == RolePlatformSuperAdmin {
		if gymID == uuid.Nil {
			return role, DomainSys, nil
		}
		return role, GymDomain(gymID), nil
	}
	if gymID == uuid.Nil || !p.HasGym() || *p.GymID != gymID {
		return "", "", ErrForbidden
	}
	return role, GymDomain(gymID), nil
}

// AuthorizePrincipal checks whether p may act on object inside gymID.
// Pass uuid.Nil for platform-level resources.
func AuthorizePrincipal(ctx context.Context, auth IAuthorization, p access.Principal, gymID uuid.UUID, object Resource, action Action) error {
	role, domain, err := Scope(p, gymID)
	if err != nil {
		return err
	}
	return auth.MustEnforce(ctx, role, domain, object, action)
}

// AuthorizeContext is AuthorizePrincipal for the principal carried in ctx.
func AuthorizeContext(ctx context.Context, auth IAuthorization, gymID uuid.UUID, object Resource, action Action) error {
	return AuthorizePrincipal(ctx, auth, reqctx.PrincipalFromContext(ctx), gymID, object, action)
}
