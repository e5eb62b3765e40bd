package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoboard/internal/config"
	"github.com/idilsaglam/todoboard/internal/metrics"
	"github.com/idilsaglam/todoboard/internal/server"
	"github.com/idilsaglam/todoboard/internal/ui"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local JSONPlaceholder-compatible todo server",
		Long: `serve runs a todo REST server with the same routes and pagination as
JSONPlaceholder, so the board can be pointed at it with --base-url.
Items are kept in memory, in a JSON file or in redis.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: a.runServe,
	}
	f := cmd.Flags()
	f.String("addr", "", "listen address")
	f.String("store", "", "storage backend: memory, file, redis")
	f.String("file", "", "JSON file for the file store")
	f.String("redis-addr", "", "redis address for the redis store")
	f.Int("seed", 0, "number of items to create when the store is empty")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sc := a.cfg.Server

	st, err := openStore(ctx, sc)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := server.Seed(ctx, st, sc.Seed); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if addr := a.cfg.Metrics.Addr; addr != "" && addr != sc.Addr {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				a.logger.Error().Err(err).Str("addr", addr).Msg("Metrics listener failed")
			}
		}()
	}

	a.logger.Info().Str("store", sc.Store).Str("addr", sc.Addr).Int("seed", sc.Seed).Msg("Starting dev server")
	ui.OK(cmd.OutOrStdout(), fmt.Sprintf("serving todos on http://%s/todos (%s store)", sc.Addr, sc.Store))
	return server.New(st, server.WithMetrics()).ListenAndServe(ctx, sc.Addr)
}

func openStore(ctx context.Context, sc config.ServerConfig) (server.Store, error) {
	switch sc.Store {
	case "file":
		return server.OpenFileStore(sc.File)
	case "redis":
		return server.OpenRedisStore(ctx, sc.RedisAddr, sc.RedisDB)
	default:
		return server.NewMemoryStore(), nil
	}
}
