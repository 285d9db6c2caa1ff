package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/repo"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/constants"
	"github.com/techforgyms/techforgyms_backend/pkg/email"
	pasetotoken "github.com/techforgyms/techforgyms_backend/pkg/paseto"
	"github.com/techforgyms/techforgyms_backend/pkg/util/password"
	"github.com/techforgyms/techforgyms_backend/pkg/util/slug"
)

const (
	trialDays       = 14
	defaultTier     = "starter"
	statusTrialing  = "trialing"
	gymSlugKey      = "gyms_slug_key"
	profileEmailKey = "profiles_email_key"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type SignUpRequest struct {
	Email    string
	Password string
	FullName string
	Role     string // gym_owner or member
	GymName  string // gym_owner only
	GymSlug  string // gym_owner: requested slug; member: gym to join
}

type SignUpResult struct {
	Profile   *repo.Profile
	Gym       *repo.Gym // created or joined gym, if any
	Tokens    *Tokens
	Principal access.Principal
}

type SignInResult struct {
	Tokens    *Tokens
	Principal access.Principal
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error)
	SignIn(ctx context.Context, emailAddr, pw string) (*SignInResult, error)
	SignOut(ctx context.Context, sessionID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	store    *repo.Store
	sessions sessionStore
	hasher   *password.Hasher
	mailer   email.Sender
	cfg      *config.Config
	now      func() time.Time
}

func New(
	store *repo.Store,
	rdb *redis.Client,
	paseto *pasetotoken.Manager,
	mailer email.Sender,
	cfg *config.Config,
) Service {
	return &authService{
		store:    store,
		sessions: sessionStore{paseto: paseto, rdb: rdb},
		hasher:   password.NewHasher(password.FromCentralConfig(cfg.Password)),
		mailer:   mailer,
		cfg:      cfg,
		now:      time.Now,
	}
}

func normalizeEmail(s string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// ---------------------------------------------------------------------------
// SignUp
// ---------------------------------------------------------------------------

func (s *authService) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	if !s.sessions.configured() {
		return nil, ErrNotConfigured
	}
	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	role := access.ParseRole(req.Role)
	if !role.In(access.RoleGymOwner, access.RoleMember) {
		return nil, ErrInvalidSignupRole
	}
	passHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &repo.Profile{
		Email:        emailAddr,
		PasswordHash: passHash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         string(role),
	}

	var gym *repo.Gym
	err = s.store.InTx(ctx, func(tx *repo.Store) error {
		switch role {
		case access.RoleGymOwner:
			g, err := s.createGym(ctx, tx, req.GymName, req.GymSlug)
			if err != nil {
				return err
			}
			gym = g
		case access.RoleMember:
			if req.GymSlug == "" {
				break
			}
			g, err := tx.Gyms.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(req.GymSlug)))
			if errors.Is(err, sql.ErrNoRows) {
				return ErrGymNotFound
			}
			if err != nil {
				return fmt.Errorf("find gym: %w", err)
			}
			gym = g
		}
		if gym != nil {
			profile.GymID = &gym.ID
		}

		created, err := tx.Profiles.Create(ctx, profile)
		if repo.IsUniqueViolation(err, profileEmailKey) {
			return ErrEmailTaken
		}
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		profile = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	tokens, err := s.sessions.create(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	s.sendWelcome(ctx, profile, gym, role == access.RoleGymOwner)

	return &SignUpResult{
		Profile:   profile,
		Gym:       gym,
		Tokens:    tokens,
		Principal: principalOf(profile),
	}, nil
}

func (s *authService) createGym(ctx context.Context, tx *repo.Store, name, requested string) (*repo.Gym, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGymNameRequired
	}
	gymSlug := strings.ToLower(strings.TrimSpace(requested))
	if gymSlug == "" {
		gymSlug = slug.Make(name)
	}
	if err := slug.Validate(gymSlug); err != nil {
		return nil, err
	}

	trialEnds := s.now().Add(trialDays * 24 * time.Hour)
	g, err := tx.Gyms.Create(ctx, &repo.Gym{
		Name:               name,
		Slug:               gymSlug,
		Tier:               defaultTier,
		SubscriptionStatus: statusTrialing,
		TrialEndsAt:        &trialEnds,
	})
	if repo.IsUniqueViolation(err, gymSlugKey) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create gym: %w", err)
	}
	return g, nil
}

func (s *authService) sendWelcome(ctx context.Context, p *repo.Profile, g *repo.Gym, owner bool) {
	if s.mailer == nil {
		return
	}
	data := email.WelcomeEmailData{
		FullName: p.FullName,
		Email:    p.Email,
		Owner:    owner,
		AppName:  constants.AppName,
		BaseURL:  s.cfg.Email.BaseURL,
		Domain:   s.cfg.Platform.Domain,
	}
	if g != nil {
		data.GymName = g.Name
		data.GymSlug = g.Slug
	}

	err := s.mailer.Send(ctx, email.BuildWelcomeEmail(data))
	switch {
	case err == nil:
	case errors.Is(err, email.ErrDisabled):
		slog.DebugContext(ctx, "welcome email skipped, email disabled", "profile_id", p.ID)
	default:
		// Mail failure never fails signup.
		slog.WarnContext(ctx, "failed to send welcome email", "profile_id", p.ID, "error", err)
	}
}

// ---------------------------------------------------------------------------
// SignIn
// ---------------------------------------------------------------------------

func (s *authService) SignIn(ctx context.Context, emailAddr, pw string) (*SignInResult, error) {
	if !s.sessions.configured() {
		return nil, ErrNotConfigured
	}
	addr, err := normalizeEmail(emailAddr)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	p, err := s.store.Profiles.GetByEmail(ctx, addr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if err := s.hasher.Verify(p.PasswordHash, pw); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.sessions.create(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Profiles.RecordLogin(ctx, p.ID, s.now()); err != nil {
		slog.WarnContext(ctx, "failed to record login", "profile_id", p.ID, "error", err)
	}

	return &SignInResult{Tokens: tokens, Principal: principalOf(p)}, nil
}

// ---------------------------------------------------------------------------
// SignOut
// ---------------------------------------------------------------------------

func (s *authService) SignOut(ctx context.Context, sessionID uuid.UUID) error {
	deleted, err := s.sessions.delete(ctx, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		slog.DebugContext(ctx, "logout: session not found in Redis (already expired)", "session_id", sessionID)
	}
	return nil
}

func principalOf(p *repo.Profile) access.Principal {
	return access.Principal{
		UserID:        p.ID,
		Role:          access.ParseRole(p.Role),
		GymID:         p.GymID,
		Authenticated: true,
	}
}
