package http

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/techforgyms/techforgyms_backend/internal/api/http/router"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/hostroute"
)

// NewExplainCommand prints what the edge would do with one request: the host
// rewrite and the route decision for the given role.
func NewExplainCommand() *cobra.Command {
	var (
		host string
		role string
	)

	cmd := &cobra.Command{
		Use:     "explain <path>",
		Short:   "Show the tenant rewrite and route decision for a request",
		Example: "  techforgyms http explain /owner --host ironmma.techforgyms.shop --role member",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if host == "" {
				host = cfg.Platform.Domain
			}
			return explain(cmd.OutOrStdout(), explainInput{
				resolver:   router.ProvideHostResolver(cfg),
				authorizer: router.ProvideAccessAuthorizer(),
				host:       host,
				target:     args[0],
				role:       role,
				configured: cfg.Authentication.Paseto.Configured(),
			})
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "request Host header (defaults to platform.domain)")
	cmd.Flags().StringVar(&role, "role", "", "caller role; empty means anonymous")
	return cmd
}

type explainInput struct {
	resolver   *hostroute.Resolver
	authorizer *access.Authorizer
	host       string
	target     string
	role       string
	configured bool
}

func explain(w io.Writer, in explainInput) error {
	path, query, _ := strings.Cut(in.target, "?")
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must start with '/': %q", in.target)
	}

	principal := access.Anonymous()
	if in.role != "" {
		principal = access.Principal{UserID: uuid.New(), Role: access.ParseRole(in.role), Authenticated: true}
	}

	res := in.resolver.Resolve(in.host, path)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "host\t%s\n", in.host)
	if res.Rewrite {
		fmt.Fprintf(tw, "tenant\t%s (custom domain: %t)\n", res.TenantKey, res.CustomDomain)
		fmt.Fprintf(tw, "rewrite\t%s -> %s\n", path, res.Path)
	} else {
		fmt.Fprintf(tw, "rewrite\tnone\n")
	}

	d := in.authorizer.Evaluate(access.Request{
		Path:               res.Path,
		RawQuery:           query,
		Principal:          principal,
		IdentityConfigured: in.configured,
	})
	fmt.Fprintf(tw, "principal\t%s\n", principal.Role)
	fmt.Fprintf(tw, "zone\t%s\n", d.Zone)
	fmt.Fprintf(tw, "decision\t%s\n", d.Kind)
	switch {
	case d.IsRedirect():
		fmt.Fprintf(tw, "location\t%s\n", d.Location)
	case d.Status != 0:
		fmt.Fprintf(tw, "status\t%d %s\n", d.Status, d.Message)
	}
	return tw.Flush()
}
