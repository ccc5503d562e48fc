package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mahjong-seisan/config"
	"mahjong-seisan/internal/logging"
	"mahjong-seisan/internal/session"
	"mahjong-seisan/internal/web"
)

const janitorInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Environment, level, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	var store session.Store
	if cfg.DatabaseURL != "" {
		db, err := session.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		store = session.NewPostgresStore(db)
		logger.Info("sessions stored in postgres")
	} else {
		store = session.NewMemoryStore()
		logger.Info("sessions stored in memory")
	}

	opts := session.DefaultOptions()
	opts.Settings = settings
	opts.TTL = cfg.SessionTTL
	opts.Logger = logger
	sessions := session.NewService(store, opts)

	go session.RunJanitor(ctx, sessions, janitorInterval, logger)

	handler := web.NewHandler(sessions, web.Options{
		Logger:        logger,
		DefaultLang:   cfg.DefaultLang,
		SecureCookies: cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
