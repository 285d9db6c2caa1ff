package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/techforgyms/techforgyms_backend/config"
)

// Ensure creates every database the deployment needs (server.databases, or
// the app and casbin dbnames) through the maintenance "postgres" database.
// It returns the names it actually created.
func Ensure(ctx context.Context, cfg *config.Config) ([]string, error) {
	names := targetDatabases(cfg)
	if len(names) == 0 {
		return nil, fmt.Errorf("no database names configured")
	}

	admin := FromCentralConfig(cfg.Database)
	admin.DBName = "postgres"
	admin.Pool.MaxOpen = 1
	conn, err := open(ctx, admin)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var created []string
	for _, name := range names {
		ok, err := createIfMissing(ctx, conn, name)
		if err != nil {
			return created, fmt.Errorf("database %q: %w", name, err)
		}
		if ok {
			created = append(created, name)
		}
	}
	return created, nil
}

func targetDatabases(cfg *config.Config) []string {
	if len(cfg.Server.Databases) > 0 {
		return cfg.Server.Databases
	}
	seen := map[string]bool{}
	var out []string
	for _, n := range []string{cfg.Database.DBName, cfg.CasbinDatabase.DBName} {
		if n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func createIfMissing(ctx context.Context, conn *sql.DB, name string) (bool, error) {
	var exists bool
	err := conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lookup: %w", err)
	}
	if exists {
		return false, nil
	}
	// CREATE DATABASE takes no bind parameters.
	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return false, fmt.Errorf("create: %w", err)
	}
	return true, nil
}
