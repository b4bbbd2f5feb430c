// Package service holds the business rules of the application. Services
// validate input, enforce invariants and delegate storage to repositories.
package service

import (
	"context"

	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/repository"
)

// RelationshipService manages the directed follow graph.
type RelationshipService struct {
	relRepo         repository.RelationshipRepository
	userRepo        repository.UserRepository
	allowSelfFollow bool
}

// NewRelationshipService returns a new RelationshipService. Self-follow is
// rejected unless allowSelfFollow is set.
func NewRelationshipService(relRepo repository.RelationshipRepository, userRepo repository.UserRepository, allowSelfFollow bool) *RelationshipService {
	return &RelationshipService{
		relRepo:         relRepo,
		userRepo:        userRepo,
		allowSelfFollow: allowSelfFollow,
	}
}

// Follow makes userID follow the user named target. Following someone twice
// is a no-op.
func (s *RelationshipService) Follow(ctx context.Context, userID uint, target string) (*models.User, error) {
	to, err := s.userRepo.GetByUsername(ctx, target)
	if err != nil {
		return nil, err
	}
	if to.ID == userID && !s.allowSelfFollow {
		observability.RelationshipChanges.WithLabelValues("follow", "rejected").Inc()
		return nil, models.NewNotAllowedError("You cannot follow yourself")
	}

	created, err := s.relRepo.Follow(ctx, userID, to.ID)
	if err != nil {
		observability.RelationshipChanges.WithLabelValues("follow", "error").Inc()
		return nil, err
	}

	outcome := "noop"
	if created {
		outcome = "created"
	}
	observability.RelationshipChanges.WithLabelValues("follow", outcome).Inc()
	observability.Ctx(ctx).Debug().Uint("to_user_id", to.ID).Str("outcome", outcome).Msg("follow")
	return to, nil
}

// Unfollow removes the edge from userID to target if it exists.
func (s *RelationshipService) Unfollow(ctx context.Context, userID uint, target string) (*models.User, error) {
	to, err := s.userRepo.GetByUsername(ctx, target)
	if err != nil {
		return nil, err
	}

	removed, err := s.relRepo.Unfollow(ctx, userID, to.ID)
	if err != nil {
		observability.RelationshipChanges.WithLabelValues("unfollow", "error").Inc()
		return nil, err
	}

	outcome := "noop"
	if removed {
		outcome = "removed"
	}
	observability.RelationshipChanges.WithLabelValues("unfollow", outcome).Inc()
	return to, nil
}

// IsFollowing reports whether userID follows targetID.
func (s *RelationshipService) IsFollowing(ctx context.Context, userID, targetID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.relRepo.IsFollowing(ctx, userID, targetID)
}

// Following returns the users username follows, ordered by username.
func (s *RelationshipService) Following(ctx context.Context, username string) ([]models.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.relRepo.Following(ctx, u.ID)
}

// Followers returns the users following username, ordered by username.
func (s *RelationshipService) Followers(ctx context.Context, username string) ([]models.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.relRepo.Followers(ctx, u.ID)
}
