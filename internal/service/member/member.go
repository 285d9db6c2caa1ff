package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/repo"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/util/password"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

var memberRoles = []string{string(access.RoleMember)}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type AddRequest struct {
	Email    string
	FullName string
	Phone    string
}

// UpdateRequest carries editable profile fields. Nil means unchanged; an
// empty Phone clears it.
type UpdateRequest struct {
	FullName *string
	Phone    *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

// Service manages gym members. Every gym-scoped call takes the gym id of the
// acting principal and never reaches rows of another gym.
type Service interface {
	List(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*repo.Profile, error)
	Add(ctx context.Context, gymID uuid.UUID, req AddRequest) (*repo.Profile, error)
	Update(ctx context.Context, gymID, memberID uuid.UUID, req UpdateRequest) (*repo.Profile, error)
	Remove(ctx context.Context, gymID, memberID uuid.UUID) error

	// Profile and UpdateProfile serve the caller's own record.
	Profile(ctx context.Context, userID uuid.UUID) (*repo.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*repo.Profile, error)
}

type memberService struct {
	profiles *repo.ProfileDatastore
	hasher   *password.Hasher
	region   string
}

func New(store *repo.Store, cfg *config.Config) Service {
	return &memberService{
		profiles: store.Profiles,
		hasher:   password.NewHasher(password.FromCentralConfig(cfg.Password)),
		region:   cfg.Billing.DefaultRegion,
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *memberService) List(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*repo.Profile, error) {
	limit, offset = clampPage(limit, offset)
	out, err := s.profiles.ListByGym(ctx, gymID, memberRoles, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return out, nil
}

// Add creates a member account linked to the gym. The account gets a random
// password; the member signs in after a password reset.
func (s *memberService) Add(ctx context.Context, gymID uuid.UUID, req AddRequest) (*repo.Profile, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrInvalidEmail
	}
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, ErrNameRequired
	}
	phone, err := NormalizePhone(req.Phone, s.region)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password.Generate(24))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p, err := s.profiles.Create(ctx, &repo.Profile{
		Email:        strings.ToLower(addr.Address),
		PasswordHash: hash,
		FullName:     name,
		Phone:        phone,
		Role:         string(access.RoleMember),
		GymID:        &gymID,
	})
	if repo.IsUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return p, nil
}

func (s *memberService) Update(ctx context.Context, gymID, memberID uuid.UUID, req UpdateRequest) (*repo.Profile, error) {
	current, err := s.profiles.GetInGym(ctx, gymID, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	name, phone, err := s.apply(current, req)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.UpdateDetailsInGym(ctx, gymID, memberID, name, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return p, nil
}

// Remove detaches a member from the gym. The account itself survives.
func (s *memberService) Remove(ctx context.Context, gymID, memberID uuid.UUID) error {
	n, err := s.profiles.Detach(ctx, gymID, memberID, memberRoles, string(access.RoleMember))
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *memberService) Profile(ctx context.Context, userID uuid.UUID) (*repo.Profile, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *memberService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*repo.Profile, error) {
	current, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	name, phone, err := s.apply(current, req)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.UpdateDetails(ctx, userID, name, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (s *memberService) apply(current *repo.Profile, req UpdateRequest) (string, *string, error) {
	name, phone := current.FullName, current.Phone
	if req.FullName != nil {
		name = strings.TrimSpace(*req.FullName)
		if name == "" {
			return "", nil, ErrNameRequired
		}
	}
	if req.Phone != nil {
		p, err := NormalizePhone(*req.Phone, s.region)
		if err != nil {
			return "", nil, err
		}
		phone = p
	}
	return name, phone, nil
}
