package server

import (
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListProjects handles GET /api/projects
// @Summary Project index
// @Description The most recent projects across all users
// @Tags projects
// @Produce json
// @Success 200 {array} models.Project
// @Router /projects [get]
func (s *Server) ListProjects(c *fiber.Ctx) error {
	projects, err := s.projects.ListProjects(scopeOf(c).Ctx, service.ProjectIndexLimit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(projects)
}

// CreateProject handles POST /api/projects
// @Summary Create a project
// @Description Omit project_id to have one assigned
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{project_id=int,name=string,description=string} true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /projects [post]
func (s *Server) CreateProject(c *fiber.Ctx) error {
	var req struct {
		ProjectID   *int   `json:"project_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rs := scopeOf(c)
	project, err := s.projects.CreateProject(rs.Ctx, service.CreateProjectInput{
		UserID:      rs.Principal.PrincipalID(),
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// GetProject handles GET /api/projects/:projectId
// @Summary Project entries
// @Tags projects
// @Produce json
// @Param projectId path int true "External project ID"
// @Success 200 {array} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{projectId} [get]
func (s *Server) GetProject(c *fiber.Ctx) error {
	projectID, err := parseProjectID(c, "projectId")
	if err != nil {
		return nil
	}

	projects, err := s.projects.PostsByProject(scopeOf(c).Ctx, projectID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(projects)
}

// CreateIdea handles POST /api/projects/:projectId/ideas
// @Summary Add an idea to a project
// @Tags ideas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "External project ID"
// @Param request body object{id=string,title=string,description=string} true "Idea"
// @Success 201 {object} models.Idea
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /projects/{projectId}/ideas [post]
func (s *Server) CreateIdea(c *fiber.Ctx) error {
	projectID, err := parseProjectID(c, "projectId")
	if err != nil {
		return nil
	}

	var req struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rs := scopeOf(c)
	idea, err := s.ideas.CreateIdea(rs.Ctx, service.CreateIdeaInput{
		ID:          req.ID,
		UserID:      rs.Principal.PrincipalID(),
		ForProject:  projectID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(idea)
}

// GetIdeas handles GET /api/ideas
// @Summary Filter ideas
// @Description At least one of idea_id and project_id is required; both are combined with AND
// @Tags ideas
// @Produce json
// @Param idea_id query string false "Idea ID"
// @Param project_id query int false "External project ID"
// @Success 200 {array} models.Idea
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /ideas [get]
func (s *Server) GetIdeas(c *fiber.Ctx) error {
	var filter repository.IdeaFilter

	if ideaID := strings.TrimSpace(c.Query("idea_id")); ideaID != "" {
		filter.IdeaID = &ideaID
	}
	projectID, err := optionalQueryInt(c, "project_id")
	if err != nil {
		return respondError(c, err)
	}
	filter.ProjectID = projectID

	ideas, err := s.ideas.IdeasFiltered(scopeOf(c).Ctx, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ideas)
}

// GetQA handles GET /api/qa
// @Summary Project Q&A
// @Description Entries of one project; an unknown project yields an empty list
// @Tags projects
// @Produce json
// @Param project_id query int true "External project ID"
// @Success 200 {array} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Router /qa [get]
func (s *Server) GetQA(c *fiber.Ctx) error {
	projectID, err := optionalQueryInt(c, "project_id")
	if err != nil {
		return respondError(c, err)
	}
	if projectID == nil {
		return respondError(c, models.NewValidationError("project_id is required"))
	}

	projects, err := s.projects.QA(scopeOf(c).Ctx, *projectID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(projects)
}
