// Package slug derives and validates gym slugs. A slug doubles as the gym's
// platform subdomain, so it must be a valid single DNS label.
package slug

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalid  = errors.New("slug must be 3-63 characters of a-z, 0-9 and '-', not starting or ending with '-'")
	ErrReserved = errors.New("slug is reserved")
)

const (
	minLen = 3
	maxLen = 63
)

var valid = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)

// reserved labels collide with platform hosts or routes.
var reserved = map[string]struct{}{
	"www": {}, "api": {}, "app": {}, "admin": {}, "super-admin": {},
	"owner": {}, "member": {}, "login": {}, "signup": {}, "sites": {},
	"mail": {}, "static": {}, "assets": {}, "preview": {}, "staging": {},
}

// Validate checks s as a stored slug.
func Validate(s string) error {
	if len(s) < minLen || len(s) > maxLen || !valid.MatchString(s) {
		return ErrInvalid
	}
	if _, ok := reserved[s]; ok {
		return ErrReserved
	}
	return nil
}

// Make derives a slug candidate from a display name. The result may still
// fail Validate (too short or reserved).
func Make(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFKD.String(strings.ToLower(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case unicode.Is(unicode.Mn, r):
			// combining marks left over from decomposition
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
		if b.Len() >= maxLen {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
