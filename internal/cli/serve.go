package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glycodraw/internal/server"
	"github.com/matzehuels/glycodraw/pkg/config"
	"github.com/matzehuels/glycodraw/pkg/pipeline"
	"github.com/matzehuels/glycodraw/pkg/session"
)

// serveCommand runs the HTTP editor host.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host editing sessions over HTTP",
		Long: `Host editing sessions over HTTP.

Sessions and saved structures are kept in the storage backend named in the
config: "file" keeps both on disk, "redis" shares sessions and the render
cache between hosts, "mongo" keeps the library in MongoDB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	sessions, err := c.openSessions(ctx)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer sessions.Close()

	lib, err := c.openLibrary(ctx)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer lib.Close()

	rc, err := c.dialCache(ctx)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(rc, nil, c.Logger)
	defer runner.Close()

	srv := server.New(sessions, lib, runner, c.Logger, server.Options{
		SessionTTL: c.Config.Server.SessionTTL.Duration,
		Layout:     c.Config.Layout(),
	})

	printSuccess("Serving on %s", StyleHighlight.Render(addr))
	printDetail("storage: %s", c.Config.Storage.Backend)
	return srv.ListenAndServe(ctx, addr)
}

// openSessions returns the session store for the configured backend.
func (c *CLI) openSessions(ctx context.Context) (session.Store, error) {
	st := c.Config.Storage
	if st.Backend == config.BackendRedis {
		return session.DialRedis(ctx, st.RedisAddr, st.RedisDB)
	}
	return session.NewFileStore(filepath.Join(st.Dir, "sessions"))
}
