package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"projecthub/internal/config"
	"projecthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:           "test",
		DBDriver:      "sqlite",
		SQLitePath:    filepath.Join(t.TempDir(), "runtime.db"),
		DBAutoMigrate: true,
		SeedFixture:   "demo",
	}
}

func TestInitRuntime_MigratesAndSeeds(t *testing.T) {
	cfg := sqliteConfig(t)

	db, rdb, err := InitRuntime(context.Background(), cfg, Options{
		Migrate:   true,
		Fixture:   "demo",
		SkipRedis: true,
	})
	require.NoError(t, err)
	assert.Nil(t, rdb)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 3, users)
}

func TestPrepare_FixtureWithoutSchemaFails(t *testing.T) {
	cfg := sqliteConfig(t)

	_, _, err := InitRuntime(context.Background(), cfg, Options{Fixture: "demo", SkipRedis: true})
	assert.Error(t, err)
}

func TestPrepare_UnknownFixture(t *testing.T) {
	cfg := sqliteConfig(t)

	_, _, err := InitRuntime(context.Background(), cfg, Options{Migrate: true, Fixture: "nope", SkipRedis: true})
	assert.ErrorContains(t, err, "nope")
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(sqliteConfig(t))
	assert.True(t, opts.Migrate)
	assert.Equal(t, "demo", opts.Fixture)
	assert.False(t, opts.SkipRedis)
}
