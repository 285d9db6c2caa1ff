package impersonation

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/techforgyms/techforgyms_backend/pkg/access"
)

var ErrMalformed = errors.New("malformed impersonation value")

// Encode serializes the override for the impersonation cookie. An inactive
// context encodes to the empty string.
func Encode(c Context) (string, error) {
	if c.Override == nil {
		return "", nil
	}
	raw, err := json.Marshal(c.Override)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode rebuilds a Context for real from a cookie value. The override is
// discarded unless real is an authenticated super admin and the override
// names them, so a forged or stale cookie degrades to no impersonation.
func Decode(real access.Principal, value string) (Context, error) {
	ctx := New(real)
	if value == "" {
		return ctx, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return ctx, ErrMalformed
	}
	var o Override
	if err := json.Unmarshal(raw, &o); err != nil {
		return ctx, ErrMalformed
	}

	if !real.Authenticated || real.Role != access.RoleSuperAdmin || o.RealUserID != real.UserID {
		return ctx, nil
	}
	o.Role = access.ParseRole(string(o.Role))
	if !o.Role.Known() || o.Role == access.RoleSuperAdmin {
		return ctx, nil
	}
	ctx.Override = &o
	return ctx, nil
}
