package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var gymCols = []string{
	"id", "name", "slug", "custom_domain", "tier", "subscription_status",
	"billing_customer_id", "trial_ends_at", "suspended_at", "created_at", "updated_at",
}

var profileCols = []string{
	"id", "email", "password_hash", "full_name", "phone", "role", "gym_id",
	"login_count", "last_login_at", "created_at", "updated_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestGymDatastore_Create(t *testing.T) {
	db, mock := newMock(t)
	ds := NewGymDatastore(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO gyms`).
		WithArgs(sqlmock.AnyArg(), "Iron MMA", "ironmma", nil, "starter", "trialing", nil).
		WillReturnRows(sqlmock.NewRows(gymCols).
			AddRow(uuid.NewString(), "Iron MMA", "ironmma", nil, "starter", "trialing", nil, nil, nil, now, now))

	g, err := ds.Create(context.Background(), &Gym{
		Name: "Iron MMA", Slug: "ironmma", Tier: "starter", SubscriptionStatus: "trialing",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Slug != "ironmma" || g.CustomDomain != nil || g.Suspended() {
		t.Errorf("unexpected gym: %+v", g)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGymDatastore_GetBySiteKey(t *testing.T) {
	db, mock := newMock(t)
	ds := NewGymDatastore(db)
	id := uuid.New()
	now := time.Now()
	domain := "customgym.io"

	mock.ExpectQuery(`FROM gyms WHERE slug = \$1 OR custom_domain = \$1`).
		WithArgs(domain).
		WillReturnRows(sqlmock.NewRows(gymCols).
			AddRow(id.String(), "Custom", "custom", domain, "pro", "active", "cus_1", nil, now, now, now))

	g, err := ds.GetBySiteKey(context.Background(), domain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ID != id {
		t.Errorf("expected id %s, got %s", id, g.ID)
	}
	if g.CustomDomain == nil || *g.CustomDomain != domain {
		t.Errorf("expected custom domain %q, got %v", domain, g.CustomDomain)
	}
	if !g.Suspended() {
		t.Error("expected gym to be suspended")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGymDatastore_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	ds := NewGymDatastore(db)

	mock.ExpectQuery(`FROM gyms WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(gymCols))

	_, err := ds.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGymDatastore_List(t *testing.T) {
	db, mock := newMock(t)
	ds := NewGymDatastore(db)
	now := time.Now()

	mock.ExpectQuery(`FROM gyms ORDER BY created_at DESC`).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(gymCols).
			AddRow(uuid.NewString(), "A", "a", nil, "starter", "trialing", nil, nil, nil, now, now).
			AddRow(uuid.NewString(), "B", "b", nil, "starter", "active", nil, nil, nil, now, now))

	gyms, err := ds.List(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gyms) != 2 {
		t.Fatalf("expected 2 gyms, got %d", len(gyms))
	}
}

func TestGymDatastore_SetSuspended(t *testing.T) {
	db, mock := newMock(t)
	ds := NewGymDatastore(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE gyms SET suspended_at`).
		WithArgs(id, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := ds.SetSuspended(context.Background(), id, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 rows affected, got %d", n)
	}
}

func TestGymDatastore_ApplyBilling(t *testing.T) {
	db, mock := newMock(t)
	ds := NewGymDatastore(db)
	id := uuid.New()
	status := "active"

	mock.ExpectExec(`UPDATE gyms`).
		WithArgs(id, sql.NullString{String: status, Valid: true}, sql.NullString{}, sql.NullTime{}, sql.NullString{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := ds.ApplyBilling(context.Background(), id, BillingUpdate{SubscriptionStatus: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row affected, got %d", n)
	}
}

func TestProfileDatastore_AccessFacts(t *testing.T) {
	db, mock := newMock(t)
	ds := NewProfileDatastore(db)
	id := uuid.New()
	gymID := uuid.New()

	mock.ExpectQuery(`SELECT role, gym_id FROM profiles`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"role", "gym_id"}).AddRow("gym_owner", gymID.String()))

	role, gid, err := ds.AccessFacts(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != "gym_owner" {
		t.Errorf("expected gym_owner, got %q", role)
	}
	if gid == nil || *gid != gymID {
		t.Errorf("expected gym %s, got %v", gymID, gid)
	}
}

func TestProfileDatastore_AccessFacts_NoGym(t *testing.T) {
	db, mock := newMock(t)
	ds := NewProfileDatastore(db)

	mock.ExpectQuery(`SELECT role, gym_id FROM profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"role", "gym_id"}).AddRow("super_admin", nil))

	_, gid, err := ds.AccessFacts(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gid != nil {
		t.Errorf("expected no gym, got %v", gid)
	}
}

func TestProfileDatastore_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	ds := NewProfileDatastore(db)
	now := time.Now()

	mock.ExpectQuery(`WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("Ana@Example.com").
		WillReturnRows(sqlmock.NewRows(profileCols).
			AddRow(uuid.NewString(), "ana@example.com", "hash", "Ana", nil, "member", nil, 3, now, now, now))

	p, err := ds.GetByEmail(context.Background(), "Ana@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.LoginCount != 3 || p.LastLoginAt == nil {
		t.Errorf("unexpected login facts: %+v", p)
	}
}

func TestProfileDatastore_ListByGym(t *testing.T) {
	db, mock := newMock(t)
	ds := NewProfileDatastore(db)
	gymID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`WHERE gym_id = \$1 AND role = ANY\(\$2\)`).
		WithArgs(gymID, sqlmock.AnyArg(), 20, 0).
		WillReturnRows(sqlmock.NewRows(profileCols).
			AddRow(uuid.NewString(), "m@example.com", "hash", "M", "+14155550100", "member", gymID.String(), 0, nil, now, now))

	out, err := ds.ListByGym(context.Background(), gymID, []string{"member"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].GymID == nil || *out[0].GymID != gymID {
		t.Fatalf("unexpected rows: %+v", out)
	}
	if out[0].Phone == nil || *out[0].Phone != "+14155550100" {
		t.Errorf("unexpected phone: %v", out[0].Phone)
	}
}

func TestProfileDatastore_Detach(t *testing.T) {
	db, mock := newMock(t)
	ds := NewProfileDatastore(db)
	gymID, id := uuid.New(), uuid.New()

	mock.ExpectExec(`UPDATE profiles SET gym_id = NULL`).
		WithArgs(id, gymID, sqlmock.AnyArg(), "member").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := ds.Detach(context.Background(), gymID, id, []string{"gym_staff", "gym_manager"}, "member")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row affected, got %d", n)
	}
}

func TestBillingEventDatastore_Record(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"first delivery", 1, true},
		{"duplicate delivery", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			ds := NewBillingEventDatastore(db)

			mock.ExpectExec(`ON CONFLICT \(id\) DO NOTHING`).
				WithArgs("evt_1", "subscription.updated", nil).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			got, err := ds.Record(context.Background(), "evt_1", "subscription.updated", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestStore_InTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewStore(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE gyms SET suspended_at`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := s.InTx(context.Background(), func(tx *Store) error {
			_, err := tx.Gyms.SetSuspended(context.Background(), uuid.New(), nil)
			return err
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	t.Run("rollback", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewStore(db)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := s.InTx(context.Background(), func(tx *Store) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "gyms_slug_key"}
	if !IsUniqueViolation(err) {
		t.Error("expected unique violation")
	}
	if !IsUniqueViolation(err, "gyms_slug_key") {
		t.Error("expected match on constraint")
	}
	if IsUniqueViolation(err, "profiles_email_key") {
		t.Error("expected no match on other constraint")
	}
	if IsUniqueViolation(errors.New("x")) {
		t.Error("plain error is not a unique violation")
	}
}
