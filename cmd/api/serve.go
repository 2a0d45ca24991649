package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"study-buddy/internal/app"
	"study-buddy/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		appLogger := logger.Get()

		components, err := app.Build(cfg)
		if err != nil {
			return err
		}
		defer components.Close()

		server := components.NewFiberApp(cfg.Server)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			appLogger.Info("Starting server", zap.String("addr", addr), zap.String("env", cfg.Logger.Env))
			if err := server.Listen(addr); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			appLogger.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.ShutdownWithContext(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			appLogger.Info("Server exited gracefully")
			return nil
		})

		return g.Wait()
	},
}
