package service

import (
	"context"
	"testing"

	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/testutil"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	passwordHashCost = bcrypt.MinCost
}

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	takenFn         func(context.Context, string, string) (bool, bool, error)
	createFn        func(context.Context, *models.User) error
	updatePhotoFn   func(context.Context, uint, string) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Taken(ctx context.Context, username, email string) (bool, bool, error) {
	return s.takenFn(ctx, username, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdatePhoto(ctx context.Context, id uint, photo string) error {
	return s.updatePhotoFn(ctx, id, photo)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

type relationshipRepoStub struct {
	followFn      func(context.Context, uint, uint) (bool, error)
	unfollowFn    func(context.Context, uint, uint) (bool, error)
	isFollowingFn func(context.Context, uint, uint) (bool, error)
	followingFn   func(context.Context, uint) ([]models.User, error)
	followersFn   func(context.Context, uint) ([]models.User, error)
}

func (s *relationshipRepoStub) Follow(ctx context.Context, from, to uint) (bool, error) {
	return s.followFn(ctx, from, to)
}
func (s *relationshipRepoStub) Unfollow(ctx context.Context, from, to uint) (bool, error) {
	return s.unfollowFn(ctx, from, to)
}
func (s *relationshipRepoStub) IsFollowing(ctx context.Context, from, to uint) (bool, error) {
	return s.isFollowingFn(ctx, from, to)
}
func (s *relationshipRepoStub) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followingFn(ctx, userID)
}
func (s *relationshipRepoStub) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followersFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		takenFn:         func(context.Context, string, string) (bool, bool, error) { return false, false, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updatePhotoFn:   func(context.Context, uint, string) error { return nil },
		listFn:          func(context.Context, int, int) ([]models.User, error) { return nil, nil },
	}
}

func noopRelationshipRepo() *relationshipRepoStub {
	return &relationshipRepoStub{
		followFn:      func(context.Context, uint, uint) (bool, error) { return true, nil },
		unfollowFn:    func(context.Context, uint, uint) (bool, error) { return true, nil },
		isFollowingFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		followingFn:   func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followersFn:   func(context.Context, uint) ([]models.User, error) { return nil, nil },
	}
}

// txStub runs fn against fixed repositories without a database.
type txStub struct {
	repos *repository.Repositories
}

func (s txStub) WithinTransaction(_ context.Context, fn func(*repository.Repositories) error) error {
	return fn(s.repos)
}

// services wires every service against a fresh sqlite database.
type services struct {
	db            *gorm.DB
	accounts      *AccountService
	relationships *RelationshipService
	streams       *StreamService
	posts         *PostService
	projects      *ProjectService
	ideas         *IdeaService
}

func newServices(t *testing.T, allowSelfFollow bool) *services {
	t.Helper()
	db := testutil.NewTestDB(t)
	repos := repository.NewRepositories(db)
	tx := repository.NewTransactor(db)
	return &services{
		db:            db,
		accounts:      NewAccountService(repos.Users, tx, NewPhotoService(nil)),
		relationships: NewRelationshipService(repos.Relationships, repos.Users, allowSelfFollow),
		streams:       NewStreamService(repos.Streams, repos.Users, 0),
		posts:         NewPostService(repos.Posts),
		projects:      NewProjectService(repos.Projects, tx),
		ideas:         NewIdeaService(repos.Ideas, repos.Projects),
	}
}
