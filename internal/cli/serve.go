package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fixturefit/internal/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	opts := server.Options{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

  POST /api/generate      search a layout and store it under its id
  GET  /api/layout/{id}   fetch a stored response
  GET  /layouts/{id}      fetch a stored layout with its timestamp

Stored layouts expire after 24 hours. With --redis they are shared between
server instances; otherwise they live in the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			opts.Catalog = cat
			opts.Logger = c.Logger

			err = server.New(runner, opts).ListenAndServe(ctx, addr)
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&opts.Attempts, "attempts", 0, "placement attempts per pass (default: pipeline default)")
	cmd.Flags().IntVar(&opts.Parallelism, "parallelism", 0, "concurrent placements per search (default: GOMAXPROCS)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().Int64Var(&opts.MaxBodyBytes, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")

	return cmd
}
