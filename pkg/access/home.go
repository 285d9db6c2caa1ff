package access

import (
	"net/url"
	"strings"
)

const (
	PathPlatformHome = "/"
	PathAdminHome    = "/super-admin"
	PathOwnerHome    = "/owner"
	PathMemberHome   = "/member"
	PathLogin        = "/login"
	PathSignup       = "/signup"

	// RedirectParam carries the originally requested path through the login flow.
	RedirectParam = "redirect"
)

// RoleHome is the landing path for a role after authentication. Unknown roles
// have no home.
func RoleHome(r Role) (string, bool) {
	switch r {
	case RoleSuperAdmin:
		return PathAdminHome, true
	case RoleMember:
		return PathMemberHome, true
	case RoleGymOwner, RoleGymManager, RoleGymStaff:
		return PathOwnerHome, true
	default:
		return "", false
	}
}

// LoginURL builds the login redirect preserving path and query of the original request.
func LoginURL(path, rawQuery string) string {
	ret := path
	if rawQuery != "" {
		ret += "?" + rawQuery
	}
	// Slashes are legal inside a query value; keeping them makes the link readable.
	escaped := strings.ReplaceAll(url.QueryEscape(ret), "%2F", "/")
	return PathLogin + "?" + RedirectParam + "=" + escaped
}

// IsLocalPath rejects absolute and protocol-relative URLs so a redirect target
// can never leave the platform.
func IsLocalPath(target string) bool {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return false
	}
	if strings.ContainsAny(target, "\\\r\n") {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
