package service

import (
	"context"
	"strconv"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/validation"

	"github.com/google/uuid"
)

// CreateIdeaInput carries a new idea. An empty ID asks for a generated one.
type CreateIdeaInput struct {
	ID          string
	UserID      uint
	ForProject  int
	Title       string
	Description string
}

type IdeaService struct {
	ideaRepo    repository.IdeaRepository
	projectRepo repository.ProjectRepository
}

func NewIdeaService(ideaRepo repository.IdeaRepository, projectRepo repository.ProjectRepository) *IdeaService {
	return &IdeaService{
		ideaRepo:    ideaRepo,
		projectRepo: projectRepo,
	}
}

func (s *IdeaService) CreateIdea(ctx context.Context, in CreateIdeaInput) (*models.Idea, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	if len(id) > models.MaxIdeaIDLen {
		return nil, models.NewValidationError("id is too long")
	}
	title, err := validation.ValidateText("title", in.Title, models.MaxProjectTextLen, false)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	description, err := validation.ValidateText("description", in.Description, models.MaxProjectTextLen, true)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	exists, err := s.projectRepo.ExistsByProjectID(ctx, in.ForProject)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Project", in.ForProject)
	}

	idea := &models.Idea{
		ID:          id,
		UserID:      in.UserID,
		ForProject:  in.ForProject,
		Title:       title,
		Description: description,
	}
	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// IdeasFiltered returns ideas matching every filter given. At least one
// filter is required and an empty result is NotFound.
func (s *IdeaService) IdeasFiltered(ctx context.Context, filter repository.IdeaFilter) ([]models.Idea, error) {
	if filter.IdeaID == nil && filter.ProjectID == nil {
		return nil, models.NewValidationError("idea_id or project_id is required")
	}

	ideas, err := s.ideaRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(ideas) == 0 {
		return nil, models.NewNotFoundError("Idea", describeFilter(filter))
	}
	return ideas, nil
}

func describeFilter(f repository.IdeaFilter) string {
	var parts []string
	if f.IdeaID != nil {
		parts = append(parts, "id="+*f.IdeaID)
	}
	if f.ProjectID != nil {
		parts = append(parts, "project="+strconv.Itoa(*f.ProjectID))
	}
	return strings.Join(parts, ",")
}
