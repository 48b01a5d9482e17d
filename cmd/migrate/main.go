package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/migrations"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/joho/godotenv"
)

func main() {

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", slog.String("error", err.Error()))
	}

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [-config path] <%s> [args]\n", strings.Join(migrations.Commands, "|"))
		flag.PrintDefaults()
	}

	// MustLoad parses flags
	cfg := config.MustLoad()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := migrations.Validate(); err != nil {
		slog.Error("❌ Embedded migrations are invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := repository.Open(ctx, &cfg.Database)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, args[0], args[1:]...); err != nil {
		slog.Error("❌ Migration failed", slog.String("command", args[0]), slog.String("error", err.Error()))
		db.Close()
		os.Exit(1)
	}

	slog.Info("✅ Migration command finished", slog.String("command", args[0]))
}
