package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/vigil/internal/config"
	"github.com/your-org/vigil/internal/observability"
	"github.com/your-org/vigil/internal/storage"
)

// The request handlers never delete trigger, history or profile rows; the
// append-only tables grow until this process compacts them.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting vigil housekeeper",
		"interval", cfg.Housekeeper.Interval.String(),
		"trigger_retention", cfg.Housekeeper.TriggerRetention.String(),
		"profile_retention", cfg.Housekeeper.ProfileRetention.String(),
	)

	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Housekeeper.Interval)
	defer ticker.Stop()

	sweep(ctx, db, cfg)

	for {
		select {
		case <-ticker.C:
			sweep(ctx, db, cfg)
		case <-quit:
			slog.Info("housekeeper stopped")
			return
		}
	}
}

func sweep(ctx context.Context, db *storage.PostgresStore, cfg *config.Config) {
	opCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	now := time.Now()

	if n, err := db.DeleteExpiredTriggers(opCtx, now.Add(-cfg.Housekeeper.TriggerRetention)); err != nil {
		slog.Error("delete expired triggers", "error", err)
	} else if n > 0 {
		slog.Info("deleted expired triggers", "count", n)
	}

	if n, err := db.DeleteExpiredFaceHistory(opCtx, now.Add(-cfg.Housekeeper.TriggerRetention)); err != nil {
		slog.Error("delete expired face history", "error", err)
	} else if n > 0 {
		slog.Info("deleted expired face history", "count", n)
	}

	if n, err := db.DeleteOldProfiles(opCtx, now.Add(-cfg.Housekeeper.ProfileRetention)); err != nil {
		slog.Error("delete old profiles", "error", err)
	} else if n > 0 {
		slog.Info("deleted old audience profiles", "count", n)
	}
}
