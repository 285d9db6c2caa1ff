package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Gym is a tenant. Slug is fixed at creation.
type Gym struct {
	ID                 uuid.UUID
	Name               string
	Slug               string
	CustomDomain       *string
	Tier               string
	SubscriptionStatus string
	BillingCustomerID  *string
	TrialEndsAt        *time.Time
	SuspendedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (g *Gym) Suspended() bool { return g.SuspendedAt != nil }

// BillingUpdate is the subset of gym columns the billing relay writes.
// Nil fields are left unchanged.
type BillingUpdate struct {
	SubscriptionStatus *string
	Tier               *string
	TrialEndsAt        *time.Time
	BillingCustomerID  *string
}

const gymColumns = `id, name, slug, custom_domain, tier, subscription_status,
		billing_customer_id, trial_ends_at, suspended_at, created_at, updated_at`

type GymDatastore struct {
	db DBTX
}

func NewGymDatastore(db DBTX) *GymDatastore {
	return &GymDatastore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGym(r rowScanner) (*Gym, error) {
	g := &Gym{}
	err := r.Scan(
		&g.ID, &g.Name, &g.Slug, &g.CustomDomain, &g.Tier, &g.SubscriptionStatus,
		&g.BillingCustomerID, &g.TrialEndsAt, &g.SuspendedAt, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a gym and returns it with database timestamps.
func (ds *GymDatastore) Create(ctx context.Context, g *Gym) (*Gym, error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	query := `
		INSERT INTO gyms (id, name, slug, custom_domain, tier, subscription_status, trial_ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + gymColumns

	return scanGym(ds.db.QueryRowContext(ctx, query,
		g.ID, g.Name, g.Slug, g.CustomDomain, g.Tier, g.SubscriptionStatus, g.TrialEndsAt,
	))
}

// GetByID returns sql.ErrNoRows if not found.
func (ds *GymDatastore) GetByID(ctx context.Context, id uuid.UUID) (*Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms WHERE id = $1`
	return scanGym(ds.db.QueryRowContext(ctx, query, id))
}

// GetBySiteKey resolves a tenant-site key: a slug, or a full custom domain.
// Returns sql.ErrNoRows if neither matches.
func (ds *GymDatastore) GetBySiteKey(ctx context.Context, key string) (*Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms WHERE slug = $1 OR custom_domain = $1 LIMIT 1`
	return scanGym(ds.db.QueryRowContext(ctx, query, key))
}

func (ds *GymDatastore) GetBySlug(ctx context.Context, slug string) (*Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms WHERE slug = $1`
	return scanGym(ds.db.QueryRowContext(ctx, query, slug))
}

// List returns gyms newest first.
func (ds *GymDatastore) List(ctx context.Context, limit, offset int) ([]*Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := ds.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var gyms []*Gym
	for rows.Next() {
		g, err := scanGym(rows)
		if err != nil {
			return nil, err
		}
		gyms = append(gyms, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return gyms, nil
}

// UpdateDetails changes the owner-editable fields. The slug is not among them.
func (ds *GymDatastore) UpdateDetails(ctx context.Context, id uuid.UUID, name string, customDomain *string) (*Gym, error) {
	query := `
		UPDATE gyms
		SET name = $2, custom_domain = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + gymColumns
	return scanGym(ds.db.QueryRowContext(ctx, query, id, name, customDomain))
}

// SetSuspended sets or clears suspended_at. Returns rows affected.
func (ds *GymDatastore) SetSuspended(ctx context.Context, id uuid.UUID, at *time.Time) (int64, error) {
	query := `UPDATE gyms SET suspended_at = $2, updated_at = NOW() WHERE id = $1`
	res, err := ds.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ApplyBilling writes the non-nil fields of u. Returns rows affected.
func (ds *GymDatastore) ApplyBilling(ctx context.Context, id uuid.UUID, u BillingUpdate) (int64, error) {
	query := `
		UPDATE gyms
		SET subscription_status = COALESCE($2, subscription_status),
		    tier                = COALESCE($3, tier),
		    trial_ends_at       = COALESCE($4, trial_ends_at),
		    billing_customer_id = COALESCE($5, billing_customer_id),
		    updated_at          = NOW()
		WHERE id = $1`
	res, err := ds.db.ExecContext(ctx, query, id,
		nullString(u.SubscriptionStatus), nullString(u.Tier), nullTime(u.TrialEndsAt), nullString(u.BillingCustomerID),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
