package cmd

import (
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/techforgyms/techforgyms_backend/cmd/http"
	systemcmd "github.com/techforgyms/techforgyms_backend/cmd/system"
	"github.com/techforgyms/techforgyms_backend/pkg/constants"
)

// Version is stamped at build time with -ldflags "-X ...cmd.Version=...".
var Version = "dev"

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "techforgyms",
		Short:   constants.AppName + " multi-tenant gym platform",
		Version: Version,
		Long: `One deployment serves every gym. A gym's public site answers on its
subdomain or custom domain; owner, staff and member areas live on the
platform domain.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "config.yaml", "path to the config file")
	root.AddCommand(httpcmd.NewHTTPCommand(), systemcmd.NewSystemCommand())
	return root
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
