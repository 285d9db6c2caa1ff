package gym

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/repo"
)

const customDomainKey = "gyms_custom_domain_key"

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// UpdateRequest carries the owner-editable fields. Nil means unchanged; an
// empty CustomDomain clears it. The slug is not editable.
type UpdateRequest struct {
	Name         *string
	CustomDomain *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Get(ctx context.Context, gymID uuid.UUID) (*repo.Gym, error)
	Update(ctx context.Context, gymID uuid.UUID, req UpdateRequest) (*repo.Gym, error)
	// ResolveSite finds the gym behind a tenant-site key (slug or custom domain).
	ResolveSite(ctx context.Context, key string) (*repo.Gym, error)
}

type gymService struct {
	gyms   *repo.GymDatastore
	domain string
}

func New(store *repo.Store, cfg *config.Config) Service {
	return &gymService{
		gyms:   store.Gyms,
		domain: strings.ToLower(cfg.Platform.Domain),
	}
}

func (s *gymService) Get(ctx context.Context, gymID uuid.UUID) (*repo.Gym, error) {
	g, err := s.gyms.GetByID(ctx, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get gym: %w", err)
	}
	return g, nil
}

func (s *gymService) Update(ctx context.Context, gymID uuid.UUID, req UpdateRequest) (*repo.Gym, error) {
	current, err := s.Get(ctx, gymID)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
	}

	customDomain := current.CustomDomain
	if req.CustomDomain != nil {
		d, err := s.normalizeDomain(*req.CustomDomain)
		if err != nil {
			return nil, err
		}
		customDomain = d
	}

	g, err := s.gyms.UpdateDetails(ctx, gymID, name, customDomain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if repo.IsUniqueViolation(err, customDomainKey) {
		return nil, ErrDomainTaken
	}
	if err != nil {
		return nil, fmt.Errorf("update gym: %w", err)
	}
	return g, nil
}

// normalizeDomain returns nil for an empty input.
func (s *gymService) normalizeDomain(raw string) (*string, error) {
	d := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), ".")
	if d == "" {
		return nil, nil
	}
	if !validHostname(d) {
		return nil, ErrInvalidDomain
	}
	if s.domain != "" && (d == s.domain || strings.HasSuffix(d, "."+s.domain)) {
		return nil, ErrPlatformDomain
	}
	return &d, nil
}

func validHostname(h string) bool {
	if len(h) > 253 || !strings.Contains(h, ".") || net.ParseIP(h) != nil {
		return false
	}
	for _, label := range strings.Split(h, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				return false
			}
		}
	}
	return true
}

func (s *gymService) ResolveSite(ctx context.Context, key string) (*repo.Gym, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, ErrNotFound
	}
	g, err := s.gyms.GetBySiteKey(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve site: %w", err)
	}
	if g.Suspended() {
		return g, ErrSuspended
	}
	return g, nil
}
