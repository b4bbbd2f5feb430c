package service

import (
	"context"
	"math/rand"

	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/validation"
)

const (
	// ProjectIDSpace bounds generated project ids to [0, ProjectIDSpace).
	ProjectIDSpace    = 100000
	projectIDAttempts = 8
	ProjectIndexLimit = 100
)

// CreateProjectInput carries a new project. A nil ProjectID asks for a
// generated one.
type CreateProjectInput struct {
	UserID      uint
	ProjectID   *int
	Name        string
	Description string
}

type ProjectService struct {
	projectRepo repository.ProjectRepository
	tx          repository.Transactor
	randomID    func() int
}

func NewProjectService(projectRepo repository.ProjectRepository, tx repository.Transactor) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		tx:          tx,
		randomID:    func() int { return rand.Intn(ProjectIDSpace) },
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	name, err := validation.ValidateText("name", in.Name, models.MaxProjectTextLen, false)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	description, err := validation.ValidateText("description", in.Description, models.MaxProjectTextLen, true)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if in.ProjectID != nil {
		if *in.ProjectID < 0 {
			return nil, models.NewValidationError("project_id must not be negative")
		}
		return s.insert(ctx, in.UserID, *in.ProjectID, name, description)
	}

	// Each attempt runs in its own transaction: a failed insert poisons the
	// transaction it ran in.
	var lastErr error
	for i := 0; i < projectIDAttempts; i++ {
		project, err := s.insert(ctx, in.UserID, s.randomID(), name, description)
		if err == nil {
			return project, nil
		}
		if !models.HasCode(err, models.CodeConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *ProjectService) insert(ctx context.Context, userID uint, projectID int, name, description string) (*models.Project, error) {
	project := &models.Project{
		ProjectID:   projectID,
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	err := s.tx.WithinTransaction(ctx, func(tx *repository.Repositories) error {
		exists, err := tx.Projects.ExistsByProjectID(ctx, projectID)
		if err != nil {
			return err
		}
		if exists {
			return models.NewConflictError("Project already exists")
		}
		return tx.Projects.Create(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// PostsByProject returns the projects carrying projectID, NotFound if none.
func (s *ProjectService) PostsByProject(ctx context.Context, projectID int) ([]models.Project, error) {
	projects, err := s.projectRepo.ByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, models.NewNotFoundError("Project", projectID)
	}
	return projects, nil
}

// ListProjects returns the newest projects for the index page.
func (s *ProjectService) ListProjects(ctx context.Context, limit int) ([]models.Project, error) {
	if limit <= 0 || limit > ProjectIndexLimit {
		limit = ProjectIndexLimit
	}
	return s.projectRepo.List(ctx, limit)
}

// QA is PostsByProject without the NotFound.
func (s *ProjectService) QA(ctx context.Context, projectID int) ([]models.Project, error) {
	return s.projectRepo.ByProjectID(ctx, projectID)
}
