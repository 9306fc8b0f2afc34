package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vault-analytics-lab/internal/config"
	"vault-analytics-lab/internal/engine"
	"vault-analytics-lab/internal/replay"
	"vault-analytics-lab/internal/reporting"
	"vault-analytics-lab/internal/storage"
	"vault-analytics-lab/internal/storage/memory"
	pgstore "vault-analytics-lab/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	eventsPath := flag.String("events", "", "JSONL event fixture to replay (required)")
	cfgFile := flag.String("config", "", "config file path")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides config)")
	useMemory := flag.Bool("use-memory", false, "force in-memory storage")
	outputJSON := flag.Bool("json", false, "output summary as JSON")
	reportDir := flag.String("report", "", "directory to write report.md and pools.csv into")
	flag.Parse()

	if *eventsPath == "" {
		return fmt.Errorf("--events is required")
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		return err
	}
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Store = memory.NewStore()
	if !*useMemory && cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pgstore.Migrate(ctx, pool); err != nil {
			return err
		}
		store = pgstore.NewStore(pool)
		logger.Info("using postgres store")
	}

	f, err := os.Open(*eventsPath)
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	events, err := replay.ReadEvents(f)
	if err != nil {
		return err
	}
	logger.Info("fixture loaded", zap.String("path", *eventsPath), zap.Int("events", len(events)))

	eng := engine.New(store, cfg, nil, nil, logger)
	stats, err := replay.NewRunner(eng).Run(ctx, events)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	if *reportDir != "" {
		if err := writeReport(ctx, store, *reportDir); err != nil {
			return err
		}
		logger.Info("report written", zap.String("dir", *reportDir))
	}

	if *outputJSON {
		out, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("\n=== Replay Summary ===\n")
	fmt.Printf("Total Events:     %d\n", stats.TotalEvents)
	fmt.Printf("Registrations:    %d\n", stats.Registrations)
	fmt.Printf("Swaps:            %d\n", stats.Swaps)
	fmt.Printf("Balance Changes:  %d\n", stats.BalanceChanges)
	fmt.Printf("Transfers:        %d\n", stats.Transfers)
	fmt.Printf("Param Changes:    %d\n", stats.ParamChanges)
	if stats.TotalEvents > 0 {
		fmt.Printf("Block Range:      %d .. %d\n", stats.FirstBlock, stats.LastBlock)
		fmt.Printf("Time Range:       %d .. %d\n", stats.FirstTimestamp, stats.LastTimestamp)
	}
	return nil
}

func writeReport(ctx context.Context, store storage.Store, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	report, err := reporting.NewGenerator(store, store).Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	md := filepath.Join(dir, "report.md")
	if err := os.WriteFile(md, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", md, err)
	}

	csv := filepath.Join(dir, "pools.csv")
	if err := os.WriteFile(csv, []byte(reporting.RenderCSV(report.Pools)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csv, err)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
