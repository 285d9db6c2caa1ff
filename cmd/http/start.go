package http

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	server "github.com/techforgyms/techforgyms_backend/internal/api/http"
)

func NewStartCommand() *cobra.Command {
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the platform app, tenant sites and API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			slog.Info("starting edge",
				"domain", cfg.Platform.Domain,
				"port", cfg.Server.Port,
				"identity_configured", cfg.Authentication.Paseto.Configured(),
			)
			return server.Run(cfg, grace)
		},
	}

	cmd.Flags().DurationVar(&grace, "shutdown-timeout", 30*time.Second, "how long in-flight requests get on shutdown")
	return cmd
}
