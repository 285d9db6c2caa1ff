package authorize

import (
	"context"
	"errors"
	"fmt"

	casbin "github.com/casbin/casbin/v2"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// IAuthorization is what services and middleware depend on.
type IAuthorization interface {
	// Enforce reports whether subject may perform action on object inside domain.
	Enforce(ctx context.Context, subject Role, domain Domain, object Resource, action Action) (bool, error)
	// MustEnforce is Enforce folded into ErrForbidden.
	MustEnforce(ctx context.Context, subject Role, domain Domain, object Resource, action Action) error

	AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error)
	RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error)
	Permissions(ctx context.Context) []PermissionPolicy
}

type Authorization struct {
	enforcer *casbin.DistributedEnforcer
	bypass   bool
}

// NewAuthorization wraps a configured enforcer. With bypass set the platform
// super admin subject skips the policy lookup.
func NewAuthorization(e *casbin.DistributedEnforcer, bypass bool) (IAuthorization, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil enforcer", ErrInvalidArgs)
	}
	return &Authorization{enforcer: e, bypass: bypass}, nil
}

func (a *Authorization) Enforce(_ context.Context, subject Role, domain Domain, object Resource, action Action) (bool, error) {
	if err := checkRequest(subject, domain, object, action); err != nil {
		return false, err
	}
	if a.bypass && subject == RolePlatformSuperAdmin {
		return true, nil
	}
	return a.enforcer.Enforce(string(subject), string(domain), string(object), string(action))
}

func (a *Authorization) MustEnforce(ctx context.Context, subject Role, domain Domain, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, domain, object, action)
	switch {
	case err != nil:
		return err
	case !ok:
		return ErrForbidden
	}
	return nil
}

func (a *Authorization) AddPermission(_ context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	p := PermissionPolicy{Subject: role, Domain: domain, Object: object, Action: action, Effect: effect}
	if err := p.validate(); err != nil {
		return false, err
	}
	return a.enforcer.AddPolicy(p.row()...)
}

// RemovePermission only checks the shape of the row so that policies written
// under an older vocabulary can still be removed.
func (a *Authorization) RemovePermission(_ context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	p := PermissionPolicy{Subject: role, Domain: domain, Object: object, Action: action, Effect: effect}
	if p.hasEmpty() || !IsValidDomain(domain) {
		return false, fmt.Errorf("%w: malformed policy %v", ErrInvalidArgs, p.row())
	}
	return a.enforcer.RemovePolicy(p.row()...)
}

func (a *Authorization) Permissions(context.Context) []PermissionPolicy {
	assertion, ok := a.enforcer.GetModel()["p"]["p"]
	if !ok {
		return nil
	}
	out := make([]PermissionPolicy, 0, len(assertion.Policy))
	for _, r := range assertion.Policy {
		if len(r) < 5 {
			continue
		}
		out = append(out, PermissionPolicy{Role(r[0]), Domain(r[1]), Resource(r[2]), Action(r[3]), PolicyEffect(r[4])})
	}
	return out
}

// checkRequest rejects empty, wildcard and unknown values before they reach
// the enforcer.
func checkRequest(subject Role, domain Domain, object Resource, action Action) error {
	switch {
	case subject == "":
		return fmt.Errorf("%w: empty subject", ErrInvalidArgs)
	case !IsValidDomain(domain):
		return fmt.Errorf("%w: invalid domain %q", ErrInvalidArgs, domain)
	case !object.known():
		return fmt.Errorf("%w: unknown resource %q", ErrInvalidArgs, object)
	case !action.known():
		return fmt.Errorf("%w: unknown action %q", ErrInvalidArgs, action)
	}
	return nil
}

func (p PermissionPolicy) hasEmpty() bool {
	return p.Subject == "" || p.Domain == "" || p.Object == "" || p.Action == "" || p.Effect == ""
}

func (p PermissionPolicy) validate() error {
	switch {
	case p.hasEmpty():
		return fmt.Errorf("%w: empty policy field in %v", ErrInvalidArgs, p.row())
	case !p.Subject.known() && p.Subject != WildcardRole:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidArgs, p.Subject)
	case !IsValidDomain(p.Domain):
		return fmt.Errorf("%w: invalid domain %q", ErrInvalidArgs, p.Domain)
	case !p.Object.known() && p.Object != WildcardResource:
		return fmt.Errorf("%w: unknown resource %q", ErrInvalidArgs, p.Object)
	case !p.Action.known() && p.Action != WildcardAction:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidArgs, p.Action)
	case p.Effect != EffectAllow && p.Effect != EffectDeny:
		return fmt.Errorf("%w: invalid effect %q", ErrInvalidArgs, p.Effect)
	}
	return nil
}
