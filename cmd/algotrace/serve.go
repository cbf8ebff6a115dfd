package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/algotrace"
	"github.com/aretw0/algotrace/internal/cli"
	httpAdapter "github.com/aretw0/algotrace/pkg/adapters/http"
	"github.com/aretw0/algotrace/pkg/observability"
	"github.com/aretw0/algotrace/pkg/session"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the catalog, run building, permalinks and live playback sessions
over HTTP. Session events stream as Server-Sent Events and Prometheus metrics
are exposed on /metrics. The API is documented at /openapi.yaml and /swagger.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("base-url") {
			cfg.Server.BaseURL, _ = cmd.Flags().GetString("base-url")
		}
		withMetrics, _ := cmd.Flags().GetBool("metrics")
		withTrace, _ := cmd.Flags().GetBool("trace")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		var collector *observability.Collector
		if withMetrics {
			collector = observability.NewCollector()
		}
		engineOpts := []algotrace.Option{algotrace.WithMetrics(collector)}
		if withTrace {
			tp := observability.NewLogTracerProvider(logger)
			defer func() { _ = tp.Shutdown(context.Background()) }()
			engineOpts = append(engineOpts, algotrace.WithTracerProvider(tp))
		}

		engine, closeEngine := newEngine(ctx, cfg, engineOpts...)
		defer closeEngine()

		sessions := session.NewManager(
			session.WithLogger(logger),
			session.WithTTL(time.Duration(cfg.Server.SessionTTL)),
			session.WithPlayerOptions(cfg.PlayerOptions()...),
			session.WithMetrics(collector),
		)
		handler, err := httpAdapter.NewHandler(engine,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithSessions(sessions),
			httpAdapter.WithMetrics(collector),
			httpAdapter.WithBaseURL(cfg.Server.BaseURL),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("Starting algotrace server", "addr", srv.Addr, "metrics", withMetrics, "trace", withTrace)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			return sessions.Run(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("Shutting down server", "signal", ctx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				return srv.Close()
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return err
		}
		logger.Info("algotrace server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("base-url", "/", "Page that generated permalinks point at")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	serveCmd.Flags().Bool("trace", false, "Log a span for every run build at debug level")
}
