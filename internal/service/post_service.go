package service

import (
	"context"

	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/validation"
)

// MaxPostLen bounds post content.
const MaxPostLen = 2048

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, userID uint, content string) (*models.Post, error) {
	content, err := validation.ValidateText("content", content, MaxPostLen, true)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{UserID: userID, Content: content}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}
