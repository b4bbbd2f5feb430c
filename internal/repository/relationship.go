package repository

import (
	"context"

	"projecthub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationshipRepository stores the directed follow graph.
type RelationshipRepository interface {
	// Follow inserts the edge unless it already exists. created is false for
	// a repeat follow.
	Follow(ctx context.Context, fromUserID, toUserID uint) (created bool, err error)
	// Unfollow deletes the edge if present. removed is false when there was
	// nothing to delete.
	Unfollow(ctx context.Context, fromUserID, toUserID uint) (removed bool, err error)
	IsFollowing(ctx context.Context, fromUserID, toUserID uint) (bool, error)
	Following(ctx context.Context, userID uint) ([]models.User, error)
	Followers(ctx context.Context, userID uint) ([]models.User, error)
}

type relationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository creates a new relationship repository
func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &relationshipRepository{db: db}
}

func (r *relationshipRepository) Follow(ctx context.Context, fromUserID, toUserID uint) (bool, error) {
	rel := models.Relationship{FromUserID: fromUserID, ToUserID: toUserID}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rel)
	if res.Error != nil {
		return false, translate(res.Error, "Relationship", toUserID)
	}
	return res.RowsAffected > 0, nil
}

func (r *relationshipRepository) Unfollow(ctx context.Context, fromUserID, toUserID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Delete(&models.Relationship{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *relationshipRepository) IsFollowing(ctx context.Context, fromUserID, toUserID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Relationship{}).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *relationshipRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN relationships r ON r.to_user_id = users.id").
		Where("r.from_user_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *relationshipRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN relationships r ON r.from_user_id = users.id").
		Where("r.to_user_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
