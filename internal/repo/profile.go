package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is the per-user record carrying the platform role and gym link.
type Profile struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	Role         string
	GymID        *uuid.UUID
	LoginCount   int
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const profileColumns = `id, email, password_hash, full_name, phone, role, gym_id,
		login_count, last_login_at, created_at, updated_at`

type ProfileDatastore struct {
	db DBTX
}

func NewProfileDatastore(db DBTX) *ProfileDatastore {
	return &ProfileDatastore{db: db}
}

func scanProfile(r rowScanner) (*Profile, error) {
	p := &Profile{}
	err := r.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Phone, &p.Role, &p.GymID,
		&p.LoginCount, &p.LastLoginAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (ds *ProfileDatastore) Create(ctx context.Context, p *Profile) (*Profile, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `
		INSERT INTO profiles (id, email, password_hash, full_name, phone, role, gym_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + profileColumns

	return scanProfile(ds.db.QueryRowContext(ctx, query,
		p.ID, p.Email, p.PasswordHash, p.FullName, p.Phone, p.Role, p.GymID,
	))
}

// GetByID returns sql.ErrNoRows if not found.
func (ds *ProfileDatastore) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(ds.db.QueryRowContext(ctx, query, id))
}

// GetByEmail matches case-insensitively. Returns sql.ErrNoRows if not found.
func (ds *ProfileDatastore) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1)`
	return scanProfile(ds.db.QueryRowContext(ctx, query, email))
}

// GetInGym returns the profile only when it belongs to gymID.
func (ds *ProfileDatastore) GetInGym(ctx context.Context, gymID, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 AND gym_id = $2`
	return scanProfile(ds.db.QueryRowContext(ctx, query, id, gymID))
}

// AccessFacts loads only the role and gym link for the session gate.
func (ds *ProfileDatastore) AccessFacts(ctx context.Context, id uuid.UUID) (role string, gymID *uuid.UUID, err error) {
	query := `SELECT role, gym_id FROM profiles WHERE id = $1`
	err = ds.db.QueryRowContext(ctx, query, id).Scan(&role, &gymID)
	return role, gymID, err
}

// ListByGym returns the gym's profiles having one of roles, oldest first.
func (ds *ProfileDatastore) ListByGym(ctx context.Context, gymID uuid.UUID, roles []string, limit, offset int) ([]*Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE gym_id = $1 AND role = ANY($2)
		ORDER BY created_at ASC
		LIMIT $3 OFFSET $4`

	rows, err := ds.db.QueryContext(ctx, query, gymID, stringArray(roles), limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDetails writes the self-service fields.
func (ds *ProfileDatastore) UpdateDetails(ctx context.Context, id uuid.UUID, fullName string, phone *string) (*Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = $2, phone = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns
	return scanProfile(ds.db.QueryRowContext(ctx, query, id, fullName, phone))
}

// UpdateDetailsInGym is UpdateDetails restricted to one gym.
func (ds *ProfileDatastore) UpdateDetailsInGym(ctx context.Context, gymID, id uuid.UUID, fullName string, phone *string) (*Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = $3, phone = $4, updated_at = NOW()
		WHERE id = $1 AND gym_id = $2
		RETURNING ` + profileColumns
	return scanProfile(ds.db.QueryRowContext(ctx, query, id, gymID, fullName, phone))
}

// SetRole changes the role and gym link. Returns rows affected.
func (ds *ProfileDatastore) SetRole(ctx context.Context, id uuid.UUID, role string, gymID *uuid.UUID) (int64, error) {
	query := `UPDATE profiles SET role = $2, gym_id = $3, updated_at = NOW() WHERE id = $1`
	res, err := ds.db.ExecContext(ctx, query, id, role, gymID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetRoleInGym changes the role of a profile that belongs to gymID and
// currently holds one of fromRoles.
func (ds *ProfileDatastore) SetRoleInGym(ctx context.Context, gymID, id uuid.UUID, fromRoles []string, role string) (int64, error) {
	query := `
		UPDATE profiles SET role = $4, updated_at = NOW()
		WHERE id = $1 AND gym_id = $2 AND role = ANY($3)`
	res, err := ds.db.ExecContext(ctx, query, id, gymID, stringArray(fromRoles), role)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Detach clears the gym link of a profile in gymID holding one of roles and
// sets its role to newRole.
func (ds *ProfileDatastore) Detach(ctx context.Context, gymID, id uuid.UUID, roles []string, newRole string) (int64, error) {
	query := `
		UPDATE profiles SET gym_id = NULL, role = $4, updated_at = NOW()
		WHERE id = $1 AND gym_id = $2 AND role = ANY($3)`
	res, err := ds.db.ExecContext(ctx, query, id, gymID, stringArray(roles), newRole)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RecordLogin bumps the login counter and timestamp.
func (ds *ProfileDatastore) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE profiles
		SET login_count = login_count + 1, last_login_at = $2
		WHERE id = $1`
	_, err := ds.db.ExecContext(ctx, query, id, at)
	return err
}
