package http

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/pkg/logs"
)

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve and inspect the platform edge",
	}
	cmd.AddCommand(NewStartCommand(), NewExplainCommand())
	return cmd
}

// loadConfig reads the file named by the root --config flag and installs the
// configured logger as the slog default.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logs.New(cfg))
	return cfg, nil
}
