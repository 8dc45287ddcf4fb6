package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"justeat/config"
	"justeat/routers"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := config.SeedLookups(a.db.WithContext(ctx)); err != nil {
			return errors.Wrap(err, "seed lookups")
		}

		if a.config.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := routers.SetupRouters(routers.Options{
			Handler:      a.handler,
			Metrics:      a.metrics,
			CartLimiter:  a.limiter,
			AllowOrigins: a.config.Server.AllowOrigins,
			Log:          a.log,
		})

		server := &http.Server{
			Addr:              ":" + a.config.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			a.log.WithField("addr", server.Addr).Info("Listening")
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "listen")
			}
			return nil
		case <-ctx.Done():
		}

		a.log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Wrap(server.Shutdown(shutdownCtx), "shutdown")
	},
}
