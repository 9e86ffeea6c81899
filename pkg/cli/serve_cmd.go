package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"admissions-explorer/internal/app"
)

func newServeCmd(rt *runtime) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				rt.cfg.ListenAddr = addr
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer cancel()
			return serve(ctx, rt)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $LISTEN_ADDR or :8080)")
	return cmd
}

func serve(ctx context.Context, rt *runtime) error {
	a, err := app.New(ctx, app.Deps{Cfg: rt.cfg, Logger: rt.logger})
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck
	return a.Serve(ctx)
}
