package system

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/pkg/authorize"
	"github.com/techforgyms/techforgyms_backend/pkg/database"
)

func NewMigrateCommand() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply (or roll back) schema migrations and seed permission policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
			defer cancel()

			out := cmd.OutOrStdout()
			if err := migrateSchema(ctx, out, cfg, down); err != nil {
				return err
			}
			if down || !cfg.Authorization.PersistPolicies {
				return nil
			}
			return seedPolicies(ctx, out, cfg)
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	return cmd
}

func migrateSchema(ctx context.Context, out io.Writer, cfg *config.Config, down bool) error {
	db, err := database.NewFromCentral(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.Database.DBName, err)
	}
	defer db.Close()

	step, run := "up", db.MigrateUp
	if down {
		step, run = "down", db.MigrateDown
	}
	if err := run(); err != nil {
		return fmt.Errorf("migrate %s: %w", step, err)
	}

	version, dirty, err := db.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: migrated %s, schema version %d (dirty=%t)\n", cfg.Database.DBName, step, version, dirty)
	return nil
}

// seedPolicies writes the default permission set into the casbin database.
// The adapter creates its own table on first use.
func seedPolicies(ctx context.Context, out io.Writer, cfg *config.Config) error {
	enforcer, cleanup, err := authorize.NewPersistentEnforcer(cfg.Authorization.CasbinModelPath, database.NewDSN(cfg.CasbinDatabase))
	if err != nil {
		return fmt.Errorf("casbin enforcer: %w", err)
	}
	defer cleanup(context.WithoutCancel(ctx))

	auth, err := authorize.NewAuthorization(enforcer, cfg.Authorization.SuperadminBypass)
	if err != nil {
		return err
	}
	if err := authorize.SeedDefaultPolicies(ctx, auth); err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	fmt.Fprintf(out, "%s: %d default policies in place\n", cfg.CasbinDatabase.DBName, len(authorize.DefaultPolicies()))
	return nil
}
