package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository bound to the same connection or
// transaction.
type Repositories struct {
	Users         UserRepository
	Relationships RelationshipRepository
	Posts         PostRepository
	Streams       StreamRepository
	Projects      ProjectRepository
	Ideas         IdeaRepository
}

// NewRepositories builds all repositories on db.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Relationships: NewRelationshipRepository(db),
		Posts:         NewPostRepository(db),
		Streams:       NewStreamRepository(db),
		Projects:      NewProjectRepository(db),
		Ideas:         NewIdeaRepository(db),
	}
}

// Transactor runs fn with repositories bound to a single database
// transaction. fn's error rolls the transaction back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *Repositories) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor returns a Transactor backed by db.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
