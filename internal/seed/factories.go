package seed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"projecthub/internal/models"
	"projecthub/internal/observability"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "Password123!"

var nonUsernameChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db     *gorm.DB
	opts   Options
	faker  *gofakeit.Faker
	hashed string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a Factory bound to db. A zero opts.RandomSeed picks a
// time-based seed.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed), nextID: 1000}
}

func (f *Factory) passwordHash() (string, error) {
	if f.hashed != "" {
		return f.hashed, nil
	}
	cost := bcrypt.DefaultCost
	if f.opts.FastHash {
		cost = bcrypt.MinCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", err
	}
	f.hashed = string(h)
	return f.hashed, nil
}

// Username returns a fake username that passes validation, suffixed with n
// to keep it unique within one run.
func (f *Factory) Username(n int) string {
	base := nonUsernameChars.ReplaceAllString(f.faker.Username(), "")
	if base == "" {
		base = "user"
	}
	suffix := fmt.Sprintf("_%d", n)
	if len(base)+len(suffix) > 64 {
		base = base[:64-len(suffix)]
	}
	return strings.ToLower(base) + suffix
}

// CreateUser constructs and persists a fake user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(ctx context.Context, n int, overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	username := f.Username(n)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		JoinedAt: f.pastTime(),
	}
	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		observability.Ctx(ctx).Debug().Str("username", user.Username).Msg("[dry-run] CreateUser")
		return user, nil
	}

	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

// BuildPost constructs a post by user with a timestamp spread over the last
// MaxDays days. It is not persisted.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:    user.ID,
		Content:   f.faker.Sentence(f.faker.Number(4, 24)),
		Timestamp: f.pastTime(),
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in as few statements as possible.
func (f *Factory) CreatePostsBatch(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		observability.Ctx(ctx).Debug().Int("count", len(posts)).Msg("[dry-run] CreatePostsBatch")
		return nil
	}
	batch := f.opts.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return f.db.WithContext(ctx).CreateInBatches(posts, batch).Error
}

// BuildProject constructs a project owned by user. It is not persisted.
func (f *Factory) BuildProject(user *models.User, projectID int) *models.Project {
	return &models.Project{
		ProjectID:   projectID,
		UserID:      user.ID,
		Name:        f.faker.AppName(),
		Description: f.faker.Paragraph(1, f.faker.Number(1, 3), 12, " "),
		CreatedAt:   f.pastTime(),
	}
}

// BuildIdea constructs an idea by user for projectID. It is not persisted.
func (f *Factory) BuildIdea(user *models.User, projectID int) *models.Idea {
	return &models.Idea{
		ID:          f.faker.UUID(),
		UserID:      user.ID,
		ForProject:  projectID,
		Title:       strings.TrimSuffix(f.faker.HipsterSentence(f.faker.Number(3, 7)), "."),
		Description: f.faker.Sentence(f.faker.Number(8, 30)),
		CreatedAt:   f.pastTime(),
	}
}

// Pick returns a random index in [0, n).
func (f *Factory) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	now := time.Now().UTC()
	return f.faker.DateRange(now.AddDate(0, 0, -maxDays), now).UTC()
}
