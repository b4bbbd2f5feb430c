// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"

	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/repository"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	NumPosts        int
	NumProjects     int
	IdeasPerProject int
	FollowsPerUser  int
	ShouldClean     bool

	// FastHash uses the minimum bcrypt cost for generated passwords.
	FastHash bool

	// DryRun builds everything in memory without touching the database.
	DryRun bool

	MaxDays    int
	BatchSize  int
	RandomSeed int64
}

// DefaultOptions is a small but connected data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:        25,
		NumPosts:        200,
		NumProjects:     30,
		IdeasPerProject: 3,
		FollowsPerUser:  5,
		ShouldClean:     true,
		MaxDays:         90,
		BatchSize:       100,
	}
}

// Result reports what a seeding run created.
type Result struct {
	Users    []*models.User
	Posts    int
	Follows  int
	Projects int
	Ideas    int
}

// Seeder fills the database with generated users, follows, posts, projects
// and ideas.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
	repos   *repository.Repositories
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:      db,
		opts:    opts,
		factory: NewFactory(db, opts),
		repos:   repository.NewRepositories(db),
	}
}

// Seed populates the database with test data
func (s *Seeder) Seed(ctx context.Context) (*Result, error) {
	log := observability.Ctx(ctx)
	log.Info().
		Int("users", s.opts.NumUsers).
		Int("posts", s.opts.NumPosts).
		Int("projects", s.opts.NumProjects).
		Bool("dry_run", s.opts.DryRun).
		Msg("Starting database seeding")

	if s.opts.ShouldClean && !s.opts.DryRun {
		if err := s.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	res := &Result{}
	users, err := s.createUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	res.Users = users
	log.Info().Int("count", len(users)).Msg("users created")

	if len(users) == 0 {
		return res, nil
	}

	if res.Follows, err = s.createFollows(ctx, users); err != nil {
		return nil, fmt.Errorf("failed to create follows: %w", err)
	}
	if res.Posts, err = s.createPosts(ctx, users); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	if res.Projects, res.Ideas, err = s.createProjects(ctx, users); err != nil {
		return nil, fmt.Errorf("failed to create projects: %w", err)
	}

	log.Info().
		Int("follows", res.Follows).
		Int("posts", res.Posts).
		Int("projects", res.Projects).
		Int("ideas", res.Ideas).
		Msg("Database seeding completed")
	return res, nil
}

// ClearAll removes every row the application owns, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	observability.Ctx(ctx).Info().Msg("Clearing existing data")
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{
		&models.Idea{},
		&models.Project{},
		&models.Relationship{},
		&models.Post{},
		&models.User{},
	} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

func (s *Seeder) createUsers(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		u, err := s.factory.CreateUser(ctx, i)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// createFollows links every user to up to FollowsPerUser others. Duplicate
// picks are absorbed by the idempotent Follow.
func (s *Seeder) createFollows(ctx context.Context, users []*models.User) (int, error) {
	if s.opts.FollowsPerUser <= 0 || len(users) < 2 {
		return 0, nil
	}
	created := 0
	for _, u := range users {
		for j := 0; j < s.opts.FollowsPerUser; j++ {
			target := users[s.factory.Pick(len(users))]
			if target.ID == u.ID {
				continue
			}
			if s.opts.DryRun {
				created++
				continue
			}
			ok, err := s.repos.Relationships.Follow(ctx, u.ID, target.ID)
			if err != nil {
				return created, err
			}
			if ok {
				created++
			}
		}
	}
	return created, nil
}

func (s *Seeder) createPosts(ctx context.Context, users []*models.User) (int, error) {
	posts := make([]*models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		posts = append(posts, s.factory.BuildPost(users[s.factory.Pick(len(users))]))
	}
	if err := s.factory.CreatePostsBatch(ctx, posts); err != nil {
		return 0, err
	}
	return len(posts), nil
}

// createProjects numbers projects after the highest existing ProjectID so a
// run without ShouldClean never collides.
func (s *Seeder) createProjects(ctx context.Context, users []*models.User) (int, int, error) {
	if s.opts.NumProjects <= 0 {
		return 0, 0, nil
	}

	next := 1
	if !s.opts.DryRun {
		var maxID int
		if err := s.db.WithContext(ctx).Model(&models.Project{}).Select("COALESCE(MAX(project_id), 0)").Scan(&maxID).Error; err != nil {
			return 0, 0, err
		}
		next = maxID + 1
	}

	projects, ideas := 0, 0
	for i := 0; i < s.opts.NumProjects; i++ {
		owner := users[s.factory.Pick(len(users))]
		project := s.factory.BuildProject(owner, next+i)
		if !s.opts.DryRun {
			if err := s.repos.Projects.Create(ctx, project); err != nil {
				return projects, ideas, err
			}
		}
		projects++

		for j := 0; j < s.opts.IdeasPerProject; j++ {
			idea := s.factory.BuildIdea(users[s.factory.Pick(len(users))], project.ProjectID)
			if !s.opts.DryRun {
				if err := s.repos.Ideas.Create(ctx, idea); err != nil {
					return projects, ideas, err
				}
			}
			ideas++
		}
	}
	return projects, ideas, nil
}
