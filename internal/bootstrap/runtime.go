// Package bootstrap wires the process-wide runtime shared by the commands:
// the database, its schema, redis and optional demo data.
package bootstrap

import (
	"context"
	"fmt"

	"projecthub/internal/config"
	"projecthub/internal/database"
	"projecthub/internal/observability"
	"projecthub/internal/seed"
	"projecthub/internal/session"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Migrate applies the schema after connecting.
	Migrate bool
	// Fixture, when set, is a built-in fixture name or YAML path applied
	// after migration.
	Fixture string
	// SkipRedis leaves the redis client nil, for commands that never use it.
	SkipRedis bool
}

// OptionsFromConfig derives Options from the environment configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{Migrate: cfg.DBAutoMigrate, Fixture: cfg.SeedFixture}
}

// InitRuntime connects to DB and Redis, migrates and optionally seeds.
// The redis client is nil when redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := Prepare(ctx, db, opts); err != nil {
		return nil, nil, err
	}

	if opts.SkipRedis {
		return db, nil, nil
	}
	return db, session.ConnectRedis(cfg.RedisURL), nil
}

// Prepare runs the schema and fixture steps of opts against db.
func Prepare(ctx context.Context, db *gorm.DB, opts Options) error {
	if opts.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	if opts.Fixture != "" {
		if err := seed.SeedFixture(ctx, db, opts.Fixture); err != nil {
			return fmt.Errorf("failed to apply fixture %s: %w", opts.Fixture, err)
		}
		observability.Ctx(ctx).Info().Str("fixture", opts.Fixture).Msg("fixture seeded")
	}
	return nil
}
