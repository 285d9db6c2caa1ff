package access

import (
	"net/http"
	"net/url"
	"strings"
)

// Zone groups path prefixes that share an access rule.
type Zone int

const (
	ZonePublic Zone = iota
	ZoneAdmin
	ZoneOwner
	ZoneMember
	ZoneAuth
)

func (z Zone) String() string {
	switch z {
	case ZoneAdmin:
		return "admin"
	case ZoneOwner:
		return "owner"
	case ZoneMember:
		return "member"
	case ZoneAuth:
		return "auth"
	default:
		return "public"
	}
}

// Protected reports whether the zone requires an authenticated principal.
func (z Zone) Protected() bool {
	return z == ZoneAdmin || z == ZoneOwner || z == ZoneMember
}

// Rule binds a path prefix to a zone. API rules answer with status codes
// instead of browser redirects.
type Rule struct {
	Prefix string
	Zone   Zone
	API    bool
}

// DefaultRules is the platform access policy, evaluated top to bottom.
var DefaultRules = []Rule{
	{Prefix: PathAdminHome, Zone: ZoneAdmin},
	{Prefix: "/api/admin", Zone: ZoneAdmin, API: true},
	{Prefix: PathOwnerHome, Zone: ZoneOwner},
	{Prefix: "/api/owner", Zone: ZoneOwner, API: true},
	{Prefix: PathMemberHome, Zone: ZoneMember},
	{Prefix: "/api/member", Zone: ZoneMember, API: true},
	{Prefix: PathLogin, Zone: ZoneAuth},
	{Prefix: PathSignup, Zone: ZoneAuth},
}

// HasPathPrefix matches prefix on path segment boundaries: "/owner" matches
// "/owner" and "/owner/members" but not "/ownership".
func HasPathPrefix(path, prefix string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// Allows reports whether role may enter zone. Exhaustive over Zone.
func Allows(zone Zone, p Principal) bool {
	switch zone {
	case ZonePublic, ZoneAuth:
		return true
	case ZoneAdmin:
		return p.Authenticated && p.Role == RoleSuperAdmin
	case ZoneOwner:
		return p.Authenticated && p.Role.In(RoleGymOwner, RoleGymManager, RoleGymStaff, RoleSuperAdmin)
	case ZoneMember:
		return p.Authenticated
	default:
		return false
	}
}

type DecisionKind int

const (
	Allow DecisionKind = iota
	RedirectLogin
	RedirectRoleHome
	RedirectPlatformHome
	Unauthorized
	Forbidden
	Unavailable
)

func (k DecisionKind) String() string {
	switch k {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectRoleHome:
		return "redirect_role_home"
	case RedirectPlatformHome:
		return "redirect_platform_home"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating one request against the policy.
type Decision struct {
	Kind     DecisionKind
	Zone     Zone
	Location string // set for redirects
	Status   int    // set for API answers
	Message  string // set for API answers
}

func (d Decision) IsRedirect() bool {
	return d.Kind == RedirectLogin || d.Kind == RedirectRoleHome || d.Kind == RedirectPlatformHome
}

// Request is what the authorizer needs to know about an inbound request.
type Request struct {
	Path      string
	RawQuery  string
	Principal Principal
	// IdentityConfigured is false when the deployment has no identity provider.
	IdentityConfigured bool
}

// Authorizer evaluates the path policy. It holds no per-request state and is
// safe for concurrent use.
type Authorizer struct {
	rules []Rule
}

// NewAuthorizer copies rules, or DefaultRules when none are given.
func NewAuthorizer(rules ...Rule) *Authorizer {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Authorizer{rules: cp}
}

// Classify returns the first rule matching path; the zero Rule (public) otherwise.
// Matching ignores case so that "/OWNER" lands in the owner zone.
func (a *Authorizer) Classify(path string) Rule {
	path = strings.ToLower(path)
	for _, r := range a.rules {
		if HasPathPrefix(path, r.Prefix) {
			return r
		}
	}
	return Rule{Zone: ZonePublic}
}

// Evaluate decides whether req may proceed, and where to send it if not.
func (a *Authorizer) Evaluate(req Request) Decision {
	rule := a.Classify(req.Path)
	p := req.Principal

	switch rule.Zone {
	case ZonePublic:
		return Decision{Kind: Allow, Zone: rule.Zone}
	case ZoneAuth:
		return authGuard(p, rule)
	}

	if !req.IdentityConfigured {
		if rule.API {
			return apiDecision(Unavailable, rule.Zone, http.StatusServiceUnavailable, "identity provider not configured")
		}
		return Decision{Kind: RedirectPlatformHome, Zone: rule.Zone, Location: PathPlatformHome}
	}

	if !p.Authenticated {
		if rule.API {
			return apiDecision(Unauthorized, rule.Zone, http.StatusUnauthorized, "authentication required")
		}
		return Decision{Kind: RedirectLogin, Zone: rule.Zone, Location: LoginURL(req.Path, req.RawQuery)}
	}

	if Allows(rule.Zone, p) {
		return Decision{Kind: Allow, Zone: rule.Zone}
	}

	if rule.API {
		return apiDecision(Forbidden, rule.Zone, http.StatusForbidden, "forbidden")
	}
	return mismatch(rule.Zone, p, req)
}

// mismatch sends an authenticated principal somewhere it is allowed to be.
// A role without a home goes to login, which accepts it without redirecting.
func mismatch(zone Zone, p Principal, req Request) Decision {
	login := Decision{Kind: RedirectLogin, Zone: zone, Location: LoginURL(req.Path, req.RawQuery)}

	switch zone {
	case ZoneAdmin:
		if home, ok := RoleHome(p.Role); ok {
			return Decision{Kind: RedirectRoleHome, Zone: zone, Location: home}
		}
		return login
	case ZoneOwner:
		if p.Role == RoleMember {
			return Decision{Kind: RedirectRoleHome, Zone: zone, Location: PathMemberHome}
		}
		return login
	default:
		return login
	}
}

func authGuard(p Principal, rule Rule) Decision {
	if !p.Authenticated {
		return Decision{Kind: Allow, Zone: rule.Zone}
	}
	home, ok := RoleHome(p.Role)
	if !ok {
		// Mid-onboarding principals have no profile row yet; let them stay.
		return Decision{Kind: Allow, Zone: rule.Zone}
	}
	return Decision{Kind: RedirectRoleHome, Zone: rule.Zone, Location: home}
}

func apiDecision(kind DecisionKind, zone Zone, status int, msg string) Decision {
	return Decision{Kind: kind, Zone: zone, Status: status, Message: msg}
}

// SafeReturnPath resolves where a freshly authenticated principal should land:
// the requested return path when it is local and reachable for the role,
// otherwise the role's home.
func (a *Authorizer) SafeReturnPath(target string, p Principal) string {
	home, ok := RoleHome(p.Role)
	if !ok {
		home = PathPlatformHome
	}
	if target == "" || !IsLocalPath(target) {
		return home
	}
	u, err := url.Parse(target)
	if err != nil {
		return home
	}
	d := a.Evaluate(Request{Path: u.Path, RawQuery: u.RawQuery, Principal: p, IdentityConfigured: true})
	if d.Kind != Allow || a.Classify(u.Path).Zone == ZoneAuth {
		return home
	}
	return target
}
