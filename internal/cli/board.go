package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoboard/internal/metrics"
	"github.com/idilsaglam/todoboard/internal/tui"
)

func (a *app) boardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  a.runBoard,
	}
	cmd.Flags().Int("page-size", 0, "initial page size")
	return cmd
}

func (a *app) runBoard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, err := a.remote()
	if err != nil {
		return err
	}
	b, err := a.board(client)
	if err != nil {
		return usagef(err)
	}

	if addr := a.cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				a.logger.Error().Err(err).Str("addr", addr).Msg("Metrics listener failed")
			}
		}()
	}

	a.logger.Info().
		Str("list_url", a.cfg.API.Endpoints().ListURL).
		Int("page_size", b.PageSize()).
		Msg("Opening board")
	return tui.Run(ctx, b, tui.Options{
		ToastDuration: a.cfg.Board.ToastDuration(),
		SkeletonRows:  a.cfg.TUI.SkeletonRows,
		AltScreen:     a.cfg.TUI.AltScreen,
	})
}
