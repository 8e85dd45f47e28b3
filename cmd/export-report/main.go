// export-report is a one-shot CLI: fetch the expense collection, apply a
// time window and write the CSV report to a file or stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"expensedash/internal/config"
	"expensedash/internal/core"
	"expensedash/internal/export"
	"expensedash/internal/remote"
	"expensedash/internal/stats"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	periodFlag := flag.String("period", "all", "time window: all, 7, 30, 90 or year")
	outFlag := flag.String("out", "", "output file (default: expenses-<date>.csv, '-' for stdout)")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	period, err := core.ParsePeriod(*periodFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid period:", *periodFlag)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := remote.NewClient(cfg.RemoteBaseURL, cfg.RemoteTimeout)
	expenses, err := client.ListExpenses(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fetch expenses:", err)
		os.Exit(1)
	}
	expenses = stats.FilterByPeriod(expenses, period, time.Now())

	out := os.Stdout
	name := *outFlag
	if name == "" {
		name = export.Filename(time.Now())
	}
	if name != "-" {
		f, err := os.Create(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create report:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := export.WriteCSV(out, expenses); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if name != "-" {
		fmt.Fprintf(os.Stderr, "wrote %d expenses to %s\n", len(expenses), name)
	}
}
