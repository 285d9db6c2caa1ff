package authorize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	casbin "github.com/casbin/casbin/v2"
	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/pkg/access"
)

func createTestEnforcer(t *testing.T) *casbin.DistributedEnforcer {
	t.Helper()
	e, err := NewMemoryEnforcer("")
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}
	return e
}

func seededAuth(t *testing.T, bypass bool) IAuthorization {
	t.Helper()
	auth, err := NewAuthorization(createTestEnforcer(t), bypass)
	if err != nil {
		t.Fatalf("NewAuthorization: %v", err)
	}
	if err := SeedDefaultPolicies(context.Background(), auth); err != nil {
		t.Fatalf("SeedDefaultPolicies: %v", err)
	}
	return auth
}

func TestNewAuthorization(t *testing.T) {
	t.Run("returns error for nil enforcer", func(t *testing.T) {
		if _, err := NewAuthorization(nil, false); err == nil {
			t.Error("Expected error for nil enforcer")
		}
	})

	t.Run("succeeds with valid enforcer", func(t *testing.T) {
		auth, err := NewAuthorization(createTestEnforcer(t), false)
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if auth == nil {
			t.Error("Expected non-nil authorization")
		}
	})
}

func TestLoadModel_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.conf")
	if err := os.WriteFile(path, []byte(DefaultModel), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	if _, err := NewMemoryEnforcer(path); err != nil {
		t.Fatalf("NewMemoryEnforcer: %v", err)
	}
	if _, err := NewMemoryEnforcer(filepath.Join(t.TempDir(), "missing.conf")); err == nil {
		t.Error("expected error for missing model file")
	}
}

func TestIsValidDomain(t *testing.T) {
	tests := []struct {
		name     string
		domain   Domain
		expected bool
	}{
		{"sys domain", DomainSys, true},
		{"wildcard domain", WildcardDomain, true},
		{"all gyms", Domain("gym:*"), true},
		{"valid gym domain", Domain("gym:550e8400-e29b-41d4-a716-446655440000"), true},
		{"empty domain", Domain(""), false},
		{"random string", Domain("random"), false},
		{"gym without uuid", Domain("gym:"), false},
		{"gym with invalid uuid", Domain("gym:not-a-uuid"), false},
		{"unknown prefix", Domain("studio:550e8400-e29b-41d4-a716-446655440000"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidDomain(tt.domain); got != tt.expected {
				t.Errorf("IsValidDomain(%q) = %v, want %v", tt.domain, got, tt.expected)
			}
		})
	}
}

func TestEnforce(t *testing.T) {
	auth := seededAuth(t, false)
	ctx := context.Background()
	gym := GymDomain(uuid.New())

	tests := []struct {
		name     string
		subject  Role
		domain   Domain
		resource Resource
		action   Action
		want     bool
		wantErr  bool
	}{
		{name: "owner manages members", subject: RoleGymOwner, domain: gym, resource: ResourceMember, action: ActionDelete, want: true},
		{name: "owner removes staff", subject: RoleGymOwner, domain: gym, resource: ResourceStaff, action: ActionDelete, want: true},
		{name: "manager cannot remove staff", subject: RoleGymManager, domain: gym, resource: ResourceStaff, action: ActionDelete, want: false},
		{name: "manager updates gym", subject: RoleGymManager, domain: gym, resource: ResourceGym, action: ActionUpdate, want: true},
		{name: "staff cannot delete members", subject: RoleGymStaff, domain: gym, resource: ResourceMember, action: ActionDelete, want: false},
		{name: "staff lists members", subject: RoleGymStaff, domain: gym, resource: ResourceMember, action: ActionList, want: true},
		{name: "member reads gym", subject: RoleGymMember, domain: gym, resource: ResourceGym, action: ActionRead, want: true},
		{name: "member cannot list members", subject: RoleGymMember, domain: gym, resource: ResourceMember, action: ActionList, want: false},
		{name: "owner has no platform access", subject: RoleGymOwner, domain: DomainSys, resource: ResourcePlatform, action: ActionRead, want: false},
		{name: "super admin via policy", subject: RolePlatformSuperAdmin, domain: DomainSys, resource: ResourcePlatform, action: ActionUpdate, want: true},
		{name: "error for empty subject", subject: "", domain: gym, resource: ResourceGym, action: ActionRead, wantErr: true},
		{name: "error for invalid domain", subject: RoleGymOwner, domain: Domain("invalid"), resource: ResourceGym, action: ActionRead, wantErr: true},
		{name: "error for unknown resource", subject: RoleGymOwner, domain: gym, resource: Resource("unknown"), action: ActionRead, wantErr: true},
		{name: "error for unknown action", subject: RoleGymOwner, domain: gym, resource: ResourceGym, action: Action("unknown"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.Enforce(ctx, tt.subject, tt.domain, tt.resource, tt.action)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustEnforce(t *testing.T) {
	auth := seededAuth(t, false)
	ctx := context.Background()
	gym := GymDomain(uuid.New())

	if err := auth.MustEnforce(ctx, RoleGymOwner, gym, ResourceMember, ActionCreate); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := auth.MustEnforce(ctx, RoleGymMember, gym, ResourceStaff, ActionDelete); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestSuperAdminBypass(t *testing.T) {
	auth, _ := NewAuthorization(createTestEnforcer(t), true)
	allowed, err := auth.Enforce(context.Background(), RolePlatformSuperAdmin, DomainSys, ResourceBilling, ActionDelete)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !allowed {
		t.Error("Expected superadmin to be allowed without policies")
	}
}

func TestPermissionManagement(t *testing.T) {
	auth, _ := NewAuthorization(createTestEnforcer(t), false)
	ctx := context.Background()

	t.Run("add and remove permission", func(t *testing.T) {
		added, err := auth.AddPermission(ctx, RoleGymStaff, DomainSys, ResourceGym, ActionRead, EffectAllow)
		if err != nil || !added {
			t.Fatalf("AddPermission = %v, %v", added, err)
		}
		if got := len(auth.Permissions(ctx)); got != 1 {
			t.Errorf("Permissions() len = %d, want 1", got)
		}
		removed, err := auth.RemovePermission(ctx, RoleGymStaff, DomainSys, ResourceGym, ActionRead, EffectAllow)
		if err != nil || !removed {
			t.Fatalf("RemovePermission = %v, %v", removed, err)
		}
	})

	t.Run("error for invalid effect", func(t *testing.T) {
		if _, err := auth.AddPermission(ctx, RoleGymOwner, DomainSys, ResourceGym, ActionRead, PolicyEffect("invalid")); err == nil {
			t.Error("Expected error for invalid effect")
		}
	})

	t.Run("error for unknown role", func(t *testing.T) {
		if _, err := auth.AddPermission(ctx, Role("role:studio:owner"), DomainSys, ResourceGym, ActionRead, EffectAllow); err == nil {
			t.Error("Expected error for unknown role")
		}
	})
}

func TestSeedDefaultPolicies_Idempotent(t *testing.T) {
	auth := seededAuth(t, false)
	before := len(auth.Permissions(context.Background()))
	if err := SeedDefaultPolicies(context.Background(), auth); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if after := len(auth.Permissions(context.Background())); after != before {
		t.Errorf("policy count changed from %d to %d", before, after)
	}
}

func TestAuthorizePrincipal(t *testing.T) {
	auth := seededAuth(t, false)
	ctx := context.Background()
	gymA, gymB := uuid.New(), uuid.New()

	principal := func(r access.Role, gym *uuid.UUID) access.Principal {
		return access.Principal{UserID: uuid.New(), Role: r, GymID: gym, Authenticated: true}
	}

	tests := []struct {
		name    string
		p       access.Principal
		gym     uuid.UUID
		obj     Resource
		act     Action
		wantErr error
	}{
		{name: "owner in own gym", p: principal(access.RoleGymOwner, &gymA), gym: gymA, obj: ResourceMember, act: ActionCreate},
		{name: "owner in other gym", p: principal(access.RoleGymOwner, &gymA), gym: gymB, obj: ResourceMember, act: ActionRead, wantErr: ErrForbidden},
		{name: "owner without gym", p: principal(access.RoleGymOwner, nil), gym: gymA, obj: ResourceGym, act: ActionRead, wantErr: ErrForbidden},
		{name: "super admin in any gym", p: principal(access.RoleSuperAdmin, nil), gym: gymB, obj: ResourceStaff, act: ActionDelete},
		{name: "unknown role", p: principal(access.RoleUnknown, &gymA), gym: gymA, obj: ResourceGym, act: ActionRead, wantErr: ErrForbidden},
		{name: "anonymous", p: access.Anonymous(), gym: gymA, obj: ResourceGym, act: ActionRead, wantErr: ErrNoSubjectInContext},
		{name: "member cannot manage staff", p: principal(access.RoleMember, &gymA), gym: gymA, obj: ResourceStaff, act: ActionList, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizePrincipal(ctx, auth, tt.p, tt.gym, tt.obj, tt.act)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
