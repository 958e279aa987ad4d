package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Oudwins/devtaskflow/internals/timeouts"
	"github.com/Oudwins/devtaskflow/taskflowd/server"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the DevTaskFlow HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New()
			defer srv.Base.Close()

			errs := make(chan error, 1)
			go func() {
				errs <- srv.Start()
			}()

			select {
			case err := <-errs:
				_ = srv.Shutdown(context.Background())
				return err
			case <-ctx.Done():
				srv.Base.Logger.Info("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				return <-errs
			}
		},
	}
}
