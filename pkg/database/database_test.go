package database

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/techforgyms/techforgyms_backend/config"
)

func TestFromCentralConfig_Defaults(t *testing.T) {
	cfg := FromCentralConfig(config.DatabaseConfig{User: "tfg", DBName: "techforgyms"})
	if cfg.Host != "localhost" || cfg.Port != 5432 || cfg.SSLMode != "disable" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Pool.MaxOpen != 25 || cfg.Pool.MaxLifetime != 5*time.Minute {
		t.Errorf("pool defaults not applied: %+v", cfg.Pool)
	}

	cfg = FromCentralConfig(config.DatabaseConfig{Pool: config.DatabasePoolConfig{ConnMaxLifetimeMin: 30}})
	if cfg.Pool.MaxLifetime != 30*time.Minute {
		t.Errorf("MaxLifetime = %v", cfg.Pool.MaxLifetime)
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "empty password omitted",
			cfg:  Config{Host: "localhost", Port: 5432, User: "tfg", DBName: "techforgyms", SSLMode: "disable"},
			want: "host=localhost port=5432 user=tfg dbname=techforgyms sslmode=disable",
		},
		{
			name: "password with space and quote",
			cfg:  Config{Host: "db", Port: 6432, User: "tfg", Password: `it's a pw`, DBName: "x", SSLMode: "require"},
			want: `host=db port=6432 user=tfg password='it\'s a pw' dbname=x sslmode=require`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Errorf("DSN = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTargetDatabases(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.DBName = "techforgyms"
	cfg.CasbinDatabase.DBName = "techforgyms"
	if got := targetDatabases(cfg); len(got) != 1 || got[0] != "techforgyms" {
		t.Errorf("dedupe failed: %v", got)
	}
	cfg.Server.Databases = []string{"a", "b"}
	if got := targetDatabases(cfg); len(got) != 2 {
		t.Errorf("explicit list ignored: %v", got)
	}
}

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}
	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for v := range ups {
		if !downs[v] {
			t.Errorf("migration %s has no down file", v)
		}
	}
}

func TestCreateIfMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	mock.ExpectQuery(`FROM pg_database`).WithArgs("techforgyms").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	created, err := createIfMissing(ctx, db, "techforgyms")
	if err != nil || created {
		t.Fatalf("existing db: created=%v err=%v", created, err)
	}

	mock.ExpectQuery(`FROM pg_database`).WithArgs("techforgyms_casbin").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`CREATE DATABASE "techforgyms_casbin"`).WillReturnResult(sqlmock.NewResult(0, 0))
	created, err = createIfMissing(ctx, db, "techforgyms_casbin")
	if err != nil || !created {
		t.Fatalf("missing db: created=%v err=%v", created, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
