package repository

import (
	"context"

	"projecthub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IdeaFilter selects ideas. Present fields are AND-ed.
type IdeaFilter struct {
	IdeaID    *string
	ProjectID *int
}

// IdeaRepository defines persistence operations for ideas.
type IdeaRepository interface {
	Create(ctx context.Context, idea *models.Idea) error
	Find(ctx context.Context, filter IdeaFilter) ([]models.Idea, error)
}

type ideaRepository struct {
	db *gorm.DB
}

// NewIdeaRepository creates a new idea repository
func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) Create(ctx context.Context, idea *models.Idea) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(idea).Error; err != nil {
		return translate(err, "Idea", idea.ID)
	}
	return nil
}

func (r *ideaRepository) Find(ctx context.Context, filter IdeaFilter) ([]models.Idea, error) {
	q := r.db.WithContext(ctx).Preload("User")
	if filter.IdeaID != nil {
		q = q.Where("id = ?", *filter.IdeaID)
	}
	if filter.ProjectID != nil {
		q = q.Where("for_project = ?", *filter.ProjectID)
	}

	ideas := []models.Idea{}
	if err := q.Order("created_at DESC").Order("id ASC").Find(&ideas).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ideas, nil
}
