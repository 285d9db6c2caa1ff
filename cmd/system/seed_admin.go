package system

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/techforgyms/techforgyms_backend/internal/repo"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/database"
	"github.com/techforgyms/techforgyms_backend/pkg/util/password"
)

func NewSeedAdminCommand() *cobra.Command {
	var (
		emailAddr string
		pw        string
		fullName  string
	)

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create a super admin, or promote an existing account to one",
		RunE: func(cmd *cobra.Command, args []string) error {
			emailAddr = strings.TrimSpace(emailAddr)
			if emailAddr == "" {
				return fmt.Errorf("--email is required")
			}

			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
			defer cancel()

			db, err := database.NewFromCentral(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			store := repo.NewStore(db.Conn())

			existing, err := store.Profiles.GetByEmail(ctx, emailAddr)
			switch {
			case err == nil:
				if _, err := store.Profiles.SetRole(ctx, existing.ID, string(access.RoleSuperAdmin), nil); err != nil {
					return fmt.Errorf("failed to promote %s: %w", emailAddr, err)
				}
				fmt.Printf("Promoted %s to super admin.\n", emailAddr)
				return nil
			case !errors.Is(err, sql.ErrNoRows):
				return fmt.Errorf("failed to look up %s: %w", emailAddr, err)
			}

			if pw == "" {
				return fmt.Errorf("--password is required to create a new account")
			}
			hasher := password.NewHasher(password.FromCentralConfig(cfg.Password))
			hash, err := hasher.Hash(pw)
			if err != nil {
				return err
			}

			p, err := store.Profiles.Create(ctx, &repo.Profile{
				Email:        strings.ToLower(emailAddr),
				PasswordHash: hash,
				FullName:     fullName,
				Role:         string(access.RoleSuperAdmin),
			})
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", emailAddr, err)
			}
			fmt.Printf("Created super admin %s (%s).\n", p.Email, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&emailAddr, "email", "", "Account email")
	cmd.Flags().StringVar(&pw, "password", "", "Password for a new account")
	cmd.Flags().StringVar(&fullName, "name", "Platform Admin", "Full name for a new account")

	return cmd
}
