package server

import (
	"io"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultPeoplePageSize = 50

type followResponse struct {
	User      *models.User `json:"user"`
	Following bool         `json:"following"`
}

type profileResponse struct {
	User      *models.User `json:"user"`
	Following bool         `json:"following"`
}

// Follow handles POST /api/follow/:username
// @Summary Follow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username to follow"
// @Success 200 {object} followResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /follow/{username} [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	rs := scopeOf(c)

	target, err := s.relationships.Follow(rs.Ctx, rs.Principal.PrincipalID(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(followResponse{User: target, Following: true})
}

// Unfollow handles POST /api/unfollow/:username
// @Summary Unfollow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username to unfollow"
// @Success 200 {object} followResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /unfollow/{username} [post]
func (s *Server) Unfollow(c *fiber.Ctx) error {
	rs := scopeOf(c)

	target, err := s.relationships.Unfollow(rs.Ctx, rs.Principal.PrincipalID(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(followResponse{User: target, Following: false})
}

// GetFollowing handles GET /api/users/:username/following
// @Summary Users someone follows
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	users, err := s.relationships.Following(scopeOf(c).Ctx, c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetFollowers handles GET /api/users/:username/followers
// @Summary Users following someone
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	users, err := s.relationships.Followers(scopeOf(c).Ctx, c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:username
// @Summary User profile
// @Description Profile of a user and whether the caller follows them
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} profileResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	rs := scopeOf(c)

	user, err := s.accounts.GetByUsername(rs.Ctx, c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	following, err := s.relationships.IsFollowing(rs.Ctx, rs.Principal.PrincipalID(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profileResponse{User: user, Following: following})
}

// GetMyProfile handles GET /api/users/me
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	return c.JSON(scopeOf(c).User())
}

// UploadPhoto handles POST /api/users/me/photo
// @Summary Upload profile photo
// @Description Accepts jpeg, png, gif or webp; stored as a 256px square webp
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Image file"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me/photo [post]
func (s *Server) UploadPhoto(c *fiber.Ctx) error {
	photo, err := optionalPhoto(c)
	if err != nil {
		return respondError(c, err)
	}
	if photo == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	rs := scopeOf(c)
	user, err := s.accounts.SetPhoto(rs.Ctx, rs.Principal.PrincipalID(), *photo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// optionalPhoto reads the "photo" file of a multipart request. It returns
// nil when the request is not multipart or carries no such file.
func optionalPhoto(c *fiber.Ctx) (*service.PhotoUpload, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &service.PhotoUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}, nil
}

// GetPeople handles GET /api/people
// @Summary List people
// @Tags users
// @Produce json
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Router /people [get]
func (s *Server) GetPeople(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPeoplePageSize)

	users, err := s.accounts.ListPeople(scopeOf(c).Ctx, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}
