package server

import (
	"net/http"
	"strconv"
	"testing"

	"projecthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectEndpoints(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.login(t, "builder")

	var created models.Project
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"project_id":  42,
		"name":        "  Telescope  ",
		"description": "A backyard telescope",
	}, &created))
	assert.Equal(t, 42, created.ProjectID)
	assert.Equal(t, "Telescope", created.Name)

	var body models.ErrorResponse
	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"project_id": 42, "name": "Again", "description": "dup",
	}, &body))
	assert.Equal(t, models.CodeConflict, body.Code)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"name": "No description",
	}, nil))
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/api/projects", "", map[string]any{
		"name": "x", "description": "y",
	}, nil))

	var random models.Project
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"name": "Random", "description": "id assigned",
	}, &random))
	assert.GreaterOrEqual(t, random.ProjectID, 0)

	var index []models.Project
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/projects", "", nil, &index))
	assert.Len(t, index, 2)

	var byID []models.Project
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/projects/42", "", nil, &byID))
	require.Len(t, byID, 1)
	assert.Equal(t, "Telescope", byID[0].Name)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/projects/7", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/projects/abc", "", nil, nil))

	var qa []models.Project
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/qa?project_id=7", "", nil, &qa))
	assert.Empty(t, qa)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/qa?project_id=42", "", nil, &qa))
	assert.Len(t, qa, 1)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/qa", "", nil, nil))
}

func TestIdeaEndpoints(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.login(t, "thinker")

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"project_id": 5, "name": "Garden", "description": "Raised beds",
	}, nil))

	var idea models.Idea
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/projects/5/ideas", token, map[string]any{
		"id": "drip", "title": "Drip irrigation", "description": "Timer based",
	}, &idea))
	assert.Equal(t, "drip", idea.ID)
	assert.Equal(t, 5, idea.ForProject)

	var generated models.Idea
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/projects/5/ideas", token, map[string]any{
		"title": "Compost", "description": "Three bins",
	}, &generated))
	assert.NotEmpty(t, generated.ID)

	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, "/api/projects/5/ideas", token, map[string]any{
		"id": "drip", "title": "Again", "description": "dup",
	}, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/projects/6/ideas", token, map[string]any{
		"title": "Orphan", "description": "no project",
	}, nil))

	var ideas []models.Idea
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/ideas?project_id=5", "", nil, &ideas))
	assert.Len(t, ideas, 2)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/ideas?project_id=5&idea_id=drip", "", nil, &ideas))
	require.Len(t, ideas, 1)
	assert.Equal(t, "drip", ideas[0].ID)

	var body models.ErrorResponse
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/ideas?project_id=6&idea_id=drip", "", nil, &body))
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/ideas", "", nil, &body))
	assert.Equal(t, models.CodeValidation, body.Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/ideas?project_id=x", "", nil, nil))
}

func TestPostEndpoints(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.login(t, "writer")

	var post models.Post
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/posts", token, map[string]string{
		"content": "  first!  ",
	}, &post))
	assert.Equal(t, "first!", post.Content)
	assert.Equal(t, "writer", post.User.Username)

	var fetched models.Post
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/posts/"+strconv.FormatUint(uint64(post.ID), 10), "", nil, &fetched))
	assert.Equal(t, post.ID, fetched.ID)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/posts/9999", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/posts/zero", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/posts", token, map[string]string{"content": "   "}, nil))
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/api/posts", "", map[string]string{"content": "x"}, nil))
}
