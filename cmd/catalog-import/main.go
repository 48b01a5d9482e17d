package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/catalogimport"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/joho/godotenv"
)

func main() {

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", slog.String("error", err.Error()))
	}

	file := flag.String("file", "clothes.json", "path to the catalog JSON file")
	skipCache := flag.Bool("skip-cache", false, "do not invalidate the cached category listing")

	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting product data import", slog.String("file", *file))

	f, err := os.Open(*file)
	if err != nil {
		slog.Error("❌ Error opening catalog file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	records, err := catalogimport.ParseRecords(f)
	f.Close()
	if err != nil {
		slog.Error("❌ Error reading catalog file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := repository.Open(ctx, &cfg.Database)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	report, err := catalogimport.NewImporter(db, logger).Import(ctx, records)
	if err != nil {
		slog.Error("❌ Import failed", slog.String("error", err.Error()))
		db.Close()
		os.Exit(1)
	}

	slog.Info(report.String(),
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.Int("total", report.Total),
	)

	if *skipCache {
		return
	}

	// New categories must show up without waiting for the cache TTL.
	redisClient, err := repository.NewRedisClient(ctx, &cfg.RedisConnect)
	if err != nil {
		slog.Warn("Could not reach redis, category cache left as is", slog.String("error", err.Error()))
		return
	}

	c := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer c.Close()

	if err := c.Delete(ctx, cache.CategoryListKey); err != nil {
		slog.Warn("Failed to invalidate category cache", slog.String("error", err.Error()))
	}
}
