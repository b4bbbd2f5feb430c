package seed

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/repository"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures/*.yml
var builtinFixtures embed.FS

// Fixture is a hand-written data set: named users with their follows and
// posts, and projects with their ideas.
type Fixture struct {
	Users    []FixtureUser    `yaml:"users"`
	Projects []FixtureProject `yaml:"projects"`
}

type FixtureUser struct {
	Username string        `yaml:"username"`
	Email    string        `yaml:"email"`
	Follows  []string      `yaml:"follows"`
	Posts    []FixturePost `yaml:"posts"`
}

type FixturePost struct {
	Content string `yaml:"content"`
	DaysAgo int    `yaml:"days_ago"`
}

type FixtureProject struct {
	ProjectID   int           `yaml:"project_id"`
	Owner       string        `yaml:"owner"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	DaysAgo     int           `yaml:"days_ago"`
	Ideas       []FixtureIdea `yaml:"ideas"`
}

type FixtureIdea struct {
	ID          string `yaml:"id"`
	Author      string `yaml:"author"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// LoadFixture reads a fixture by built-in name ("demo") or file path.
func LoadFixture(nameOrPath string) (*Fixture, error) {
	var (
		data []byte
		err  error
	)
	if !strings.ContainsAny(nameOrPath, "/.") {
		data, err = builtinFixtures.ReadFile("fixtures/" + nameOrPath + ".yml")
	} else {
		data, err = os.ReadFile(nameOrPath)
	}
	if err != nil {
		return nil, fmt.Errorf("read fixture %q: %w", nameOrPath, err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and validates fixture YAML.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// validate checks references the way the database resolves usernames,
// ignoring case.
func (f *Fixture) validate() error {
	known := make(map[string]bool, len(f.Users))
	for _, u := range f.Users {
		if u.Username == "" {
			return errors.New("fixture user without username")
		}
		key := models.UsernameKey(u.Username)
		if known[key] {
			return fmt.Errorf("fixture user %q listed twice", u.Username)
		}
		known[key] = true
	}
	for _, u := range f.Users {
		for _, target := range u.Follows {
			if !known[models.UsernameKey(target)] {
				return fmt.Errorf("fixture user %q follows unknown user %q", u.Username, target)
			}
		}
	}
	for _, p := range f.Projects {
		if !known[models.UsernameKey(p.Owner)] {
			return fmt.Errorf("fixture project %d has unknown owner %q", p.ProjectID, p.Owner)
		}
		for _, idea := range p.Ideas {
			if idea.ID == "" {
				return fmt.Errorf("fixture project %d has an idea without id", p.ProjectID)
			}
			if !known[models.UsernameKey(idea.Author)] {
				return fmt.Errorf("fixture idea %q has unknown author %q", idea.ID, idea.Author)
			}
		}
	}
	return nil
}

// ApplyFixture inserts f in a single transaction. Users that already exist
// are reused, so applying the same fixture twice only fails on projects.
func (s *Seeder) ApplyFixture(ctx context.Context, f *Fixture) error {
	hash, err := s.factory.passwordHash()
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	return repository.NewTransactor(s.db).WithinTransaction(ctx, func(tx *repository.Repositories) error {
		byName := make(map[string]*models.User, len(f.Users))
		for _, fu := range f.Users {
			u, err := tx.Users.GetByUsername(ctx, fu.Username)
			if err != nil && !models.HasCode(err, models.CodeNotFound) {
				return err
			}
			if u == nil {
				email := fu.Email
				if email == "" {
					email = fu.Username + "@example.com"
				}
				u = &models.User{Username: fu.Username, Email: email, Password: hash}
				if err := tx.Users.Create(ctx, u); err != nil {
					return fmt.Errorf("fixture user %s: %w", fu.Username, err)
				}
			}
			byName[models.UsernameKey(fu.Username)] = u
		}

		for _, fu := range f.Users {
			from := byName[models.UsernameKey(fu.Username)]
			for _, target := range fu.Follows {
				if _, err := tx.Relationships.Follow(ctx, from.ID, byName[models.UsernameKey(target)].ID); err != nil {
					return err
				}
			}
			for _, fp := range fu.Posts {
				post := &models.Post{
					UserID:    from.ID,
					Content:   fp.Content,
					Timestamp: now.AddDate(0, 0, -fp.DaysAgo),
				}
				if err := tx.Posts.Create(ctx, post); err != nil {
					return err
				}
			}
		}

		for _, fp := range f.Projects {
			created := now.AddDate(0, 0, -fp.DaysAgo)
			project := &models.Project{
				ProjectID:   fp.ProjectID,
				UserID:      byName[models.UsernameKey(fp.Owner)].ID,
				Name:        fp.Name,
				Description: fp.Description,
				CreatedAt:   created,
			}
			if err := tx.Projects.Create(ctx, project); err != nil {
				return fmt.Errorf("fixture project %d: %w", fp.ProjectID, err)
			}
			for i, fi := range fp.Ideas {
				idea := &models.Idea{
					ID:          fi.ID,
					UserID:      byName[models.UsernameKey(fi.Author)].ID,
					ForProject:  fp.ProjectID,
					Title:       fi.Title,
					Description: fi.Description,
					CreatedAt:   created.Add(time.Duration(i+1) * time.Hour),
				}
				if err := tx.Ideas.Create(ctx, idea); err != nil {
					return fmt.Errorf("fixture idea %s: %w", fi.ID, err)
				}
			}
		}

		observability.Ctx(ctx).Info().
			Int("users", len(f.Users)).
			Int("projects", len(f.Projects)).
			Msg("fixture applied")
		return nil
	})
}

// SeedFixture loads nameOrPath and applies it to db.
func SeedFixture(ctx context.Context, db *gorm.DB, nameOrPath string) error {
	f, err := LoadFixture(nameOrPath)
	if err != nil {
		return err
	}
	return NewSeeder(db, Options{FastHash: true}).ApplyFixture(ctx, f)
}
