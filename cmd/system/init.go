package system

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/techforgyms/techforgyms_backend/pkg/database"
)

func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the application and casbin databases if missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			created, err := database.Ensure(ctx, cfg)
			if err != nil {
				return fmt.Errorf("init databases: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, "all databases already exist")
				return nil
			}
			for _, name := range created {
				fmt.Fprintf(out, "created %s\n", name)
			}
			return nil
		},
	}
}
