package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/categorycloud/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	baseURL string
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve clouds over HTTP",
		Long: `Serve clouds over HTTP until interrupted.

  GET  /cloud/{category}   one cloud; query parameters are cloud options
  POST /render             a wikitext document in the request body
  GET  /healthz            liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "link prefix for expanded markup (default /wiki/)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cfg, err := c.config.serverConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}

	bundle, err := c.bundle()
	if err != nil {
		return err
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(c.newRenderer(store), bundle, c.Logger, cfg)
	return srv.ListenAndServe(ctx)
}
