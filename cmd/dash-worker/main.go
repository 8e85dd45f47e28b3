// dash-worker consumes expense change events and mirrors the affected
// records into a spreadsheet, so the bookkeeping copy follows the remote
// collection without polling it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expensedash/internal/amqp"
	"expensedash/internal/config"
	"expensedash/internal/export/sheets"
	gsheet "expensedash/internal/export/sheets/google"
	mem "expensedash/internal/export/sheets/memory"
	"expensedash/internal/remote"
	"expensedash/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting dash-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	var mirror sheets.ExpenseWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		mirror = mem.New()
		logger.Info("Google Sheets disabled - mirroring in memory only")
	}

	collection := remote.NewClient(cfg.RemoteBaseURL, cfg.RemoteTimeout)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := func(event *amqp.ExpenseEvent) error {
		hctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		switch event.Op {
		case store.OpCreated, store.OpUpdated:
			e, err := collection.GetExpense(hctx, event.ExpenseID)
			if err != nil {
				var apiErr *remote.APIError
				if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
					// Deleted again before we got to it; nothing to mirror.
					slog.WarnContext(hctx, "Expense gone before mirroring", "expense_id", event.ExpenseID)
					return nil
				}
				return fmt.Errorf("fetch expense %s: %w", event.ExpenseID, err)
			}
			ref, err := mirror.Append(hctx, e)
			if err != nil {
				return fmt.Errorf("mirror expense %s: %w", event.ExpenseID, err)
			}
			slog.InfoContext(hctx, "Mirrored expense", "expense_id", event.ExpenseID, "op", event.Op, "row", ref)
			return nil
		case store.OpDeleted:
			// The mirror is append-only bookkeeping; deletions stay visible
			// there as history.
			slog.InfoContext(hctx, "Expense deleted upstream", "expense_id", event.ExpenseID)
			return nil
		default:
			slog.WarnContext(hctx, "Unknown event op, dropping", "op", event.Op, "expense_id", event.ExpenseID)
			return nil
		}
	}

	if err := amqpClient.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
