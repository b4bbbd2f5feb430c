// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"projecthub/internal/config"
	"projecthub/internal/database"
	"projecthub/internal/observability"
)

func main() {
	if err := run(); err != nil {
		observability.Logger.Fatal().Err(err).Msg("migrate failed")
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate/main.go <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	observability.InitLogger(cfg.LogLevel, cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	case "status":
		status, err := database.GetSchemaStatus(ctx, db)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		observability.Logger.Info().
			Str("driver", status.Driver).
			Int("current", status.CurrentVersion).
			Ints("applied", status.AppliedVersions).
			Bool("pending", status.Pending).
			Msg("schema status")
	default:
		return usage()
	}

	return nil
}
