// Command main runs the database seeder for ProjectHub.
package main

import (
	"context"
	"flag"

	"projecthub/internal/bootstrap"
	"projecthub/internal/config"
	"projecthub/internal/observability"
	"projecthub/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	numProjects := flag.Int("projects", defaults.NumProjects, "Number of projects to create")
	ideas := flag.Int("ideas", defaults.IdeasPerProject, "Ideas per project")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Follows per user")
	shouldClean := flag.Bool("clean", defaults.ShouldClean, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Use the minimum bcrypt cost for generated passwords")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing it")
	randomSeed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	fixture := flag.String("fixture", "", "Apply a fixture by name (e.g. demo) or YAML path instead of random data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		observability.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.LogLevel, cfg.Env)

	ctx := context.Background()
	db, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{Migrate: true, SkipRedis: true})
	if err != nil {
		observability.Logger.Fatal().Err(err).Msg("Failed to initialize runtime")
	}

	opts := seed.Options{
		NumUsers:        *numUsers,
		NumPosts:        *numPosts,
		NumProjects:     *numProjects,
		IdeasPerProject: *ideas,
		FollowsPerUser:  *follows,
		ShouldClean:     *shouldClean,
		FastHash:        *fast,
		DryRun:          *dryRun,
		MaxDays:         defaults.MaxDays,
		BatchSize:       defaults.BatchSize,
		RandomSeed:      *randomSeed,
	}
	s := seed.NewSeeder(db, opts)

	if *fixture != "" {
		if *shouldClean && !*dryRun {
			if err := s.ClearAll(ctx); err != nil {
				observability.Logger.Fatal().Err(err).Msg("Cleanup failed")
			}
		}
		f, err := seed.LoadFixture(*fixture)
		if err != nil {
			observability.Logger.Fatal().Err(err).Msg("Failed to load fixture")
		}
		if err := s.ApplyFixture(ctx, f); err != nil {
			observability.Logger.Fatal().Err(err).Msg("Fixture seeding failed")
		}
	} else if _, err := s.Seed(ctx); err != nil {
		observability.Logger.Fatal().Err(err).Msg("Seeding failed")
	}

	observability.Logger.Info().Str("password", seed.DefaultPassword).Msg("All done. Every seeded user shares this password")
}
