package repository

import (
	"context"

	"projecthub/internal/models"

	"gorm.io/gorm"
)

// StreamRepository composes activity streams with one membership-filtered
// select per call. A row is returned at most once however many paths lead
// to its author.
type StreamRepository interface {
	// PostsFor returns posts by userID or anyone userID follows, newest first.
	PostsFor(ctx context.Context, userID uint, limit int) ([]models.Post, error)
	// PostsBy returns only userID's own posts, newest first.
	PostsBy(ctx context.Context, userID uint, limit int) ([]models.Post, error)
	// ProjectsFor applies the PostsFor composition to projects.
	ProjectsFor(ctx context.Context, userID uint, limit int) ([]models.Project, error)
}

type streamRepository struct {
	db *gorm.DB
}

// NewStreamRepository creates a new stream repository
func NewStreamRepository(db *gorm.DB) StreamRepository {
	return &streamRepository{db: db}
}

// followedAuthors is the subquery selecting every user followed by userID.
func (r *streamRepository) followedAuthors(userID uint) *gorm.DB {
	return r.db.Model(&models.Relationship{}).
		Select("to_user_id").
		Where("from_user_id = ?", userID)
}

func (r *streamRepository) PostsFor(ctx context.Context, userID uint, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("posts.user_id = ? OR posts.user_id IN (?)", userID, r.followedAuthors(userID)).
		Order("posts.timestamp DESC").
		Order("posts.id DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *streamRepository) PostsBy(ctx context.Context, userID uint, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("posts.user_id = ?", userID).
		Order("posts.timestamp DESC").
		Order("posts.id DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *streamRepository) ProjectsFor(ctx context.Context, userID uint, limit int) ([]models.Project, error) {
	projects := []models.Project{}
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("projects.user_id = ? OR projects.user_id IN (?)", userID, r.followedAuthors(userID)).
		Order("projects.created_at DESC").
		Order("projects.id DESC").
		Limit(limit).
		Find(&projects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}
