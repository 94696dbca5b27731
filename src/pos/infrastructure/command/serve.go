package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sales/src/shared/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

const version = "1.0.0"

type serveCmd struct {
	app  *App
	port string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve health and metrics endpoints" }
func (*serveCmd) Usage() string {
	return `sales serve [-port <port>]

  Connects to the database (applying migrations when AUTO_MIGRATE is set) and
  serves /health, /api/v1/health and, with PROMETHEUS_ENABLED, /metrics.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.port, "port", "", "Port to listen on. Defaults to PORT.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	port := c.port
	if port == "" {
		port = c.app.Config.Port
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return c.app.withServices(ctx, func(s *Services) error {
		gin.SetMode(gin.ReleaseMode)
		opsCfg := config.OpsConfig{
			Version:           version,
			PrometheusEnabled: c.app.Config.PrometheusEnabled,
			Gatherer:          s.Gatherer,
			Logger:            c.app.Logger,
		}
		if s.DB != nil {
			opsCfg.DB = s.DB
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           config.SetupOpsRouter(opsCfg),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			c.app.Logger.Info("server started", zap.String("port", port), zap.Bool("metrics", opsCfg.PrometheusEnabled))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("error serving: %w", err)
		case <-ctx.Done():
		}

		c.app.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
