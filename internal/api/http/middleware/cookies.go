package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/service/auth"
)

// CookieJar reads and writes the session and impersonation cookies.
type CookieJar struct {
	AccessName        string
	RefreshName       string
	ImpersonationName string
	Domain            string
	Secure            bool
	RefreshTTL        time.Duration
}

func NewCookieJar(cfg config.AuthenticationConfig) CookieJar {
	ttl := time.Duration(cfg.Paseto.RefreshTTLDays) * 24 * time.Hour
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return CookieJar{
		AccessName:        cfg.Cookie.AccessName,
		RefreshName:       cfg.Cookie.RefreshName,
		ImpersonationName: cfg.Cookie.ImpersonationName,
		Domain:            cfg.Cookie.Domain,
		Secure:            cfg.Cookie.Secure,
		RefreshTTL:        ttl,
	}
}

func (j CookieJar) Tokens(c fiber.Ctx) auth.Tokens {
	return auth.Tokens{
		Access:  c.Cookies(j.AccessName),
		Refresh: c.Cookies(j.RefreshName),
	}
}

// SetTokens writes both session cookies. An empty refresh token leaves the
// refresh cookie untouched.
func (j CookieJar) SetTokens(c fiber.Ctx, t *auth.Tokens) {
	if t == nil {
		return
	}
	c.Cookie(j.cookie(j.AccessName, t.Access, time.Duration(t.ExpiresIn)*time.Second))
	if t.Refresh != "" {
		c.Cookie(j.cookie(j.RefreshName, t.Refresh, j.RefreshTTL))
	}
}

// Clear expires the session and impersonation cookies.
func (j CookieJar) Clear(c fiber.Ctx) {
	for _, name := range []string{j.AccessName, j.RefreshName, j.ImpersonationName} {
		c.Cookie(j.expired(name))
	}
}

func (j CookieJar) Impersonation(c fiber.Ctx) string {
	return c.Cookies(j.ImpersonationName)
}

// SetImpersonation writes value, or expires the cookie when value is empty.
func (j CookieJar) SetImpersonation(c fiber.Ctx, value string) {
	if value == "" {
		c.Cookie(j.expired(j.ImpersonationName))
		return
	}
	c.Cookie(j.cookie(j.ImpersonationName, value, j.RefreshTTL))
}

func (j CookieJar) cookie(name, value string, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   j.Domain,
		MaxAge:   int(ttl / time.Second),
		Secure:   j.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func (j CookieJar) expired(name string) *fiber.Cookie {
	c := j.cookie(name, "", 0)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}
