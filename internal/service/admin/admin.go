package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/techforgyms/techforgyms_backend/internal/repo"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
)

// Service holds platform operations reserved to super admins.
type Service interface {
	ListGyms(ctx context.Context, limit, offset int) ([]*repo.Gym, error)
	SetSuspended(ctx context.Context, gymID uuid.UUID, suspended bool) error
	SetRole(ctx context.Context, profileID uuid.UUID, role string, gymID *uuid.UUID) error
}

type adminService struct {
	store *repo.Store
	now   func() time.Time
}

func New(store *repo.Store) Service {
	return &adminService{store: store, now: time.Now}
}

func (s *adminService) ListGyms(ctx context.Context, limit, offset int) ([]*repo.Gym, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	gyms, err := s.store.Gyms.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list gyms: %w", err)
	}
	return gyms, nil
}

func (s *adminService) SetSuspended(ctx context.Context, gymID uuid.UUID, suspended bool) error {
	var at *time.Time
	if suspended {
		now := s.now().UTC()
		at = &now
	}
	n, err := s.store.Gyms.SetSuspended(ctx, gymID, at)
	if err != nil {
		return fmt.Errorf("set suspended: %w", err)
	}
	if n == 0 {
		return ErrGymNotFound
	}
	slog.InfoContext(ctx, "gym suspension changed", "gym_id", gymID, "suspended", suspended)
	return nil
}

// SetRole assigns a role. Gym roles must name a gym, super_admin must not,
// and member may go either way.
func (s *adminService) SetRole(ctx context.Context, profileID uuid.UUID, role string, gymID *uuid.UUID) error {
	r := access.ParseRole(role)
	switch {
	case r == access.RoleUnknown:
		return ErrInvalidRole
	case r.IsGymStaff() && gymID == nil:
		return ErrGymRequired
	case r == access.RoleSuperAdmin && gymID != nil:
		return ErrGymNotAllowed
	}

	n, err := s.store.Profiles.SetRole(ctx, profileID, string(r), gymID)
	if isForeignKeyViolation(err) {
		return ErrGymNotFound
	}
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	slog.InfoContext(ctx, "profile role changed", "profile_id", profileID, "role", r)
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
