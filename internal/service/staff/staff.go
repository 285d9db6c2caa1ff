package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/repo"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/constants"
	"github.com/techforgyms/techforgyms_backend/pkg/email"
	"github.com/techforgyms/techforgyms_backend/pkg/util/password"
)

var (
	// teamRoles are listed on the staff page.
	teamRoles = []string{string(access.RoleGymOwner), string(access.RoleGymManager), string(access.RoleGymStaff)}
	// removableRoles can be soft-removed; owners cannot.
	removableRoles = []string{string(access.RoleGymManager), string(access.RoleGymStaff)}
)

type AddRequest struct {
	Email    string
	FullName string
	Role     string
}

type Service interface {
	List(ctx context.Context, gymID uuid.UUID) ([]*repo.Profile, error)
	// Add promotes an existing account of the gym (or without a gym) to a
	// staff role, or creates and invites a new account.
	Add(ctx context.Context, gymID uuid.UUID, invitedBy string, req AddRequest) (*repo.Profile, error)
	// Remove clears the gym link and downgrades the account to member.
	Remove(ctx context.Context, gymID, staffID uuid.UUID) error
}

type staffService struct {
	store  *repo.Store
	hasher *password.Hasher
	mailer email.Sender
	cfg    *config.Config
}

func New(store *repo.Store, mailer email.Sender, cfg *config.Config) Service {
	return &staffService{
		store:  store,
		hasher: password.NewHasher(password.FromCentralConfig(cfg.Password)),
		mailer: mailer,
		cfg:    cfg,
	}
}

func (s *staffService) List(ctx context.Context, gymID uuid.UUID) ([]*repo.Profile, error) {
	out, err := s.store.Profiles.ListByGym(ctx, gymID, teamRoles, 500, 0)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return out, nil
}

func (s *staffService) Add(ctx context.Context, gymID uuid.UUID, invitedBy string, req AddRequest) (*repo.Profile, error) {
	role := access.ParseRole(req.Role)
	if !role.In(access.RoleGymManager, access.RoleGymStaff) {
		return nil, ErrInvalidRole
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrInvalidEmail
	}
	emailAddr := strings.ToLower(addr.Address)

	var (
		out     *repo.Profile
		invited bool
	)
	err = s.store.InTx(ctx, func(tx *repo.Store) error {
		existing, err := tx.Profiles.GetByEmail(ctx, emailAddr)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			hash, err := s.hasher.Hash(password.Generate(24))
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			out, err = tx.Profiles.Create(ctx, &repo.Profile{
				Email:        emailAddr,
				PasswordHash: hash,
				FullName:     strings.TrimSpace(req.FullName),
				Role:         string(role),
				GymID:        &gymID,
			})
			if err != nil {
				return fmt.Errorf("create staff: %w", err)
			}
			invited = true
			return nil
		case err != nil:
			return fmt.Errorf("find profile: %w", err)
		}

		if existing.GymID != nil && *existing.GymID != gymID {
			return ErrOtherGym
		}
		current := access.ParseRole(existing.Role)
		if !current.In(access.RoleMember, access.RoleGymManager, access.RoleGymStaff) {
			return ErrNotPromotable
		}
		if _, err := tx.Profiles.SetRole(ctx, existing.ID, string(role), &gymID); err != nil {
			return fmt.Errorf("set role: %w", err)
		}
		existing.Role = string(role)
		existing.GymID = &gymID
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	if invited {
		s.sendInvite(ctx, gymID, out, invitedBy)
	}
	return out, nil
}

func (s *staffService) sendInvite(ctx context.Context, gymID uuid.UUID, p *repo.Profile, invitedBy string) {
	if s.mailer == nil {
		return
	}
	gymName := ""
	if g, err := s.store.Gyms.GetByID(ctx, gymID); err == nil {
		gymName = g.Name
	}
	msg := email.BuildStaffInviteEmail(email.StaffInviteEmailData{
		FullName:  p.FullName,
		Email:     p.Email,
		GymName:   gymName,
		Role:      p.Role,
		InvitedBy: invitedBy,
		AppName:   constants.AppName,
		BaseURL:   s.cfg.Email.BaseURL,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.WarnContext(ctx, "failed to send staff invite", "profile_id", p.ID, "error", err)
	}
}

func (s *staffService) Remove(ctx context.Context, gymID, staffID uuid.UUID) error {
	n, err := s.store.Profiles.Detach(ctx, gymID, staffID, removableRoles, string(access.RoleMember))
	if err != nil {
		return fmt.Errorf("remove staff: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
