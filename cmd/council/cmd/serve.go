package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/council-ai/internal/api"
	"github.com/hugo-lorenzo-mato/council-ai/internal/config"
	"github.com/hugo-lorenzo-mato/council-ai/internal/events"
	"github.com/hugo-lorenzo-mato/council-ai/internal/panels"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus(256)
	defer bus.Close()

	orch, store, cleanup, err := buildOrchestrator(appConfig, bus)
	if err != nil {
		return err
	}
	defer cleanup()

	// The registry serves only the panels listing; the orchestrator holds its
	// own wired instance.
	registry := panels.NewBuiltinRegistry(panels.Config{Logger: logger})

	opts := []api.ServerOption{
		api.WithLogger(logger),
		api.WithBus(bus),
		api.WithAllowedOrigins(appConfig.Server.AllowedOrigins),
	}
	if store != nil {
		opts = append(opts, api.WithStore(store))
	}
	server := api.NewServer(orch, registry, opts...)

	addr := fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
	}

	// Hot-reload log level when an explicit config file changes.
	if cfgFile != "" {
		watcher := config.NewWatcher(cfgFile, logger, func(cfg *config.Config) {
			appConfig = cfg
		})
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(sctx)
}
