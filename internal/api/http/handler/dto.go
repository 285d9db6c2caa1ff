package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/internal/repo"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
)

type gymDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Slug               string     `json:"slug"`
	CustomDomain       *string    `json:"custom_domain"`
	Tier               string     `json:"tier"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`
	Suspended          bool       `json:"suspended"`
	CreatedAt          time.Time  `json:"created_at"`
}

func toGymDTO(g *repo.Gym) *gymDTO {
	if g == nil {
		return nil
	}
	return &gymDTO{
		ID:                 g.ID,
		Name:               g.Name,
		Slug:               g.Slug,
		CustomDomain:       g.CustomDomain,
		Tier:               g.Tier,
		SubscriptionStatus: g.SubscriptionStatus,
		TrialEndsAt:        g.TrialEndsAt,
		Suspended:          g.Suspended(),
		CreatedAt:          g.CreatedAt,
	}
}

type profileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       *string    `json:"phone"`
	Role        string     `json:"role"`
	GymID       *uuid.UUID `json:"gym_id"`
	LoginCount  int        `json:"login_count"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toProfileDTO(p *repo.Profile) *profileDTO {
	if p == nil {
		return nil
	}
	return &profileDTO{
		ID:          p.ID,
		Email:       p.Email,
		FullName:    p.FullName,
		Phone:       p.Phone,
		Role:        p.Role,
		GymID:       p.GymID,
		LoginCount:  p.LoginCount,
		LastLoginAt: p.LastLoginAt,
		CreatedAt:   p.CreatedAt,
	}
}

func toProfileDTOs(in []*repo.Profile) []*profileDTO {
	out := make([]*profileDTO, 0, len(in))
	for _, p := range in {
		out = append(out, toProfileDTO(p))
	}
	return out
}

type principalDTO struct {
	Authenticated bool       `json:"authenticated"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	Role          string     `json:"role,omitempty"`
	GymID         *uuid.UUID `json:"gym_id,omitempty"`
}

func toPrincipalDTO(p access.Principal) principalDTO {
	if !p.Authenticated {
		return principalDTO{}
	}
	id := p.UserID
	return principalDTO{
		Authenticated: true,
		UserID:        &id,
		Role:          p.Role.String(),
		GymID:         p.GymID,
	}
}

// page reads limit/offset query parameters; bad values fall back to zero and
// the service applies its defaults.
func page(c fiber.Ctx) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return limit, offset
}

func paramUUID(c fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}
