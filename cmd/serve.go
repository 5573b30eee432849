package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"devpet/internal/clock"
	"devpet/internal/game"
	"devpet/internal/httpapi"
	"devpet/internal/notify"
	"devpet/internal/sim"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pet headless behind an HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine, shutdown, err := openEngine(ctx, cfg, notify.Log{Logger: logrus.StandardLogger()})
			if err != nil {
				return err
			}
			defer shutdown()

			return serve(ctx, engine, newServer(engine, addr))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}

func newServer(engine *game.Engine, addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewHandler(engine).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// serve runs the tick loop and the HTTP server until ctx is cancelled or the
// server fails.
func serve(ctx context.Context, engine *game.Engine, srv *http.Server) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		sim.NewRunner(engine, clock.Real{}).Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Info("HTTP API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logrus.WithError(shutdownErr).Warn("HTTP shutdown did not finish cleanly")
	}
	<-runnerDone
	logrus.Info("Server stopped")
	return err
}
