package pasetotoken

import (
	"time"

	"github.com/techforgyms/techforgyms_backend/config"
)

// NewPasetoManager creates a PASETO manager from config. It returns
// ErrNotConfigured when the deployment carries no key material.
func NewPasetoManager(cfg *config.Config) (*Manager, error) {
	p := cfg.Authentication.Paseto
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	keys, err := keysFromConfig(p)
	if err != nil {
		return nil, err
	}

	issuer, audience := p.Issuer, p.Audience
	if issuer == "" {
		issuer = cfg.Platform.Domain
	}
	if audience == "" {
		audience = cfg.Platform.Domain
	}

	return New(Config{
		Mode:       keys.Mode,
		Issuer:     issuer,
		Audience:   audience,
		AccessTTL:  time.Duration(p.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(p.RefreshTTLDays) * 24 * time.Hour,
	}, keys)
}
