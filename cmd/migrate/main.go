package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/relieffund/relieffund-backend/pkg/config"
	"github.com/relieffund/relieffund-backend/pkg/db"
	"github.com/relieffund/relieffund-backend/pkg/logger"
	"github.com/relieffund/relieffund-backend/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "status", "goose command to run (up|down|status)")
	dir := flag.String("dir", migrate.DefaultDir, "directory holding the SQL migrations")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	switch *cmd {
	case "up", "down", "status":
	default:
		logg.Error(ctx, "unsupported command, expected up, down or status", nil)
		os.Exit(1)
	}

	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := client.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	sqlDB, err := client.DB().DB()
	requireResource(ctx, logg, "sql handle", err)

	ctx = logg.WithFields(ctx, map[string]any{"cmd": *cmd, "dir": *dir})
	logg.Info(ctx, "running goose")

	if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
		logg.Error(ctx, "goose command failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "goose command completed")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err != nil {
		logg.Error(ctx, "failed to initialize "+resource, err)
		os.Exit(1)
	}
}
