// Command seed migrates the schema and imports a catalog snapshot.
//
//	seed [snapshot.json]
//
// The path defaults to SNAPSHOT_PATH.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/storefront-labs/catalog/app/catalog"
	"github.com/storefront-labs/catalog/config"
	"github.com/storefront-labs/catalog/database"
	"github.com/storefront-labs/catalog/logging"
	"github.com/storefront-labs/catalog/models"
	"github.com/storefront-labs/catalog/seed"
	"go.uber.org/zap"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain returns the process exit code so deferred flushes run before exit.
func realMain(args []string) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load()
	log, err := logging.New(logging.Options{
		Service:     "storefront-seed",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	path := cfg.SnapshotPath
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, path, log); err != nil {
		log.Error("seeding failed", zap.String("snapshot", path), zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.Config, path string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	snap, err := catalog.ParseSnapshot(f)
	if err != nil {
		return err
	}

	conn, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	db, err := conn.DB(ctx)
	if err != nil {
		return err
	}
	if err := models.AutoMigrate(db); err != nil {
		return err
	}

	stats, err := seed.Import(ctx, db, snap, log)
	if err != nil {
		return err
	}
	log.Info("snapshot imported",
		zap.String("snapshot", path),
		zap.Int("categories", stats.Categories),
		zap.Int("products", stats.Products),
		zap.Int("skipped", stats.Skipped),
	)
	return nil
}
