package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expensedash/internal/amqp"
	"expensedash/internal/attach"
	"expensedash/internal/config"
	"expensedash/internal/core"
	apphttp "expensedash/internal/http"
	"expensedash/internal/localstore"
	"expensedash/internal/palette"
	"expensedash/internal/remote"
	"expensedash/internal/stats"
	"expensedash/internal/store"
	"expensedash/internal/theme"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := localstore.Open(cfg.LocalDBPath)
	if err != nil {
		logger.Error("Failed to open local store", "error", err, "path", cfg.LocalDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	colors := palette.New(repo)
	registry := attach.NewRegistry(repo)
	themes := theme.NewManager(repo, nil)
	client := remote.NewClient(cfg.RemoteBaseURL, cfg.RemoteTimeout)

	var publisher store.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Expense events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Expense events disabled - no AMQP_URL provided")
	}

	st := store.New(client, publisher, registry)
	period, _ := core.ParsePeriod(cfg.DefaultPeriod)
	if err := st.SetPeriod(period); err != nil {
		logger.Error("Failed to set default period", "error", err)
		os.Exit(1)
	}

	agg := stats.NewAggregator(colors)
	srv := apphttp.NewServer(":"+cfg.Port, st, registry, themes, agg)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Background refresh keeps the mirror close to the remote collection.
	g.Go(func() error {
		if err := st.Fetch(ctx); err != nil {
			logger.Warn("Initial fetch failed, serving empty collection", "error", err)
		}
		srv.InvalidateViews()

		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := st.Fetch(ctx); err != nil {
					logger.Warn("Background refresh failed", "error", err)
					continue
				}
				srv.InvalidateViews()
			}
		}
	})

	g.Go(func() error {
		logger.Info("Starting expensedash server", "port", cfg.Port, "remote", cfg.RemoteBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
