package server

import (
	"strings"

	"projecthub/internal/models"

	"github.com/gofiber/fiber/v2"
)

type postStreamResponse struct {
	User  *models.User  `json:"user,omitempty"`
	Posts []models.Post `json:"posts"`
}

type projectStreamResponse struct {
	Projects []models.Project `json:"projects"`
}

// GetStream handles GET /api/stream
// @Summary Composed stream
// @Description Posts by the caller and everyone the caller follows, newest first
// @Tags stream
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of posts (default 100, max 100)"
// @Success 200 {object} postStreamResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /stream [get]
func (s *Server) GetStream(c *fiber.Ctx) error {
	rs := scopeOf(c)

	posts, err := s.streams.Stream(rs.Ctx, rs.Principal.PrincipalID(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(postStreamResponse{User: rs.User(), Posts: posts})
}

// GetProjectStream handles GET /api/stream/projects
// @Summary Composed project stream
// @Description Projects by the caller and everyone the caller follows, newest first
// @Tags stream
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of projects (default 100, max 100)"
// @Success 200 {object} projectStreamResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /stream/projects [get]
func (s *Server) GetProjectStream(c *fiber.Ctx) error {
	rs := scopeOf(c)

	projects, err := s.streams.ProjectStream(rs.Ctx, rs.Principal.PrincipalID(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(projectStreamResponse{Projects: projects})
}

// GetUserStream handles GET /api/stream/:username
// @Summary User stream
// @Description Posts authored by one user. Requesting your own username returns your composed stream.
// @Tags stream
// @Produce json
// @Param username path string true "Username"
// @Param limit query int false "Maximum number of posts (default 100, max 100)"
// @Success 200 {object} postStreamResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stream/{username} [get]
func (s *Server) GetUserStream(c *fiber.Ctx) error {
	rs := scopeOf(c)
	username := c.Params("username")
	limit := c.QueryInt("limit", 0)

	if me := rs.User(); me != nil && strings.EqualFold(me.Username, username) {
		posts, err := s.streams.Stream(rs.Ctx, me.ID, limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(postStreamResponse{User: me, Posts: posts})
	}

	user, posts, err := s.streams.StreamFor(rs.Ctx, username, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(postStreamResponse{User: user, Posts: posts})
}
