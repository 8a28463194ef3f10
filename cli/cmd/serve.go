package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nathan-Luevano/Sift/internal/handlers"
	"github.com/Nathan-Luevano/Sift/internal/notifier"
	"github.com/Nathan-Luevano/Sift/internal/repository"
	"github.com/Nathan-Luevano/Sift/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the correlation HTTP service",
	Long: `Starts the HTTP API that correlates forensic events with OSINT data
and ranks OSINT items by evidentiary relevance.

Persistence (Postgres), run notifications (NATS), and the external
analyzer are all optional and controlled by configuration.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "override listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := buildRuntime(shutdownCtx)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, logger := rt.cfg, rt.logger

	var store handlers.RunStore
	if cfg.Database.Enabled {
		if err := repository.Migrate(cfg.Database.URL); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		repo, err := repository.NewPostgresRepository(shutdownCtx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer repo.Close()
		store = repo
		logger.Info("run persistence enabled")
	}

	var notify notifier.Notifier = notifier.Noop{}
	if cfg.NATS.Enabled {
		nn, err := notifier.NewNATSNotifier(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer nn.Close()
		notify = nn
		logger.Info("run notifications enabled", "subject", cfg.NATS.Subject)
	}

	h := handlers.New(rt.engine, rt.pipeline, store, notify, cfg.Server.MaxRequestSize, logger.Logger)

	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	if serveAddr != "" {
		listenAddr = serveAddr
	}

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      server.NewRouter(h, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sift service listening", "addr", listenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-shutdownCtx.Done():
	}
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
