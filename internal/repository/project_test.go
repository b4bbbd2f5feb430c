package repository

import (
	"context"
	"testing"

	"projecthub/internal/models"
	"projecthub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository_Integration(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	owner := testutil.MustCreateUser(t, db, "owner")

	require.NoError(t, repo.Create(ctx, &models.Project{ProjectID: 42, UserID: owner.ID, Name: "n", Description: "d"}))

	err := repo.Create(ctx, &models.Project{ProjectID: 42, UserID: owner.ID, Description: "again"})
	assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)

	ok, err := repo.ExistsByProjectID(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByProjectID(ctx, 43)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.ByProjectID(ctx, 42)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "owner", got[0].User.Username)

	none, err := repo.ByProjectID(ctx, 43)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := repo.List(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIdeaRepository_Integration(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewIdeaRepository(db)
	ctx := context.Background()
	author := testutil.MustCreateUser(t, db, "author")

	require.NoError(t, projects.Create(ctx, &models.Project{ProjectID: 1, UserID: author.ID, Description: "p"}))
	require.NoError(t, repo.Create(ctx, &models.Idea{ID: "i-1", UserID: author.ID, ForProject: 1, Description: "first"}))
	require.NoError(t, repo.Create(ctx, &models.Idea{ID: "i-2", UserID: author.ID, ForProject: 1, Description: "second"}))
	require.NoError(t, repo.Create(ctx, &models.Idea{ID: "i-3", UserID: author.ID, ForProject: 2, Description: "third"}))

	err := repo.Create(ctx, &models.Idea{ID: "i-1", UserID: author.ID, ForProject: 1, Description: "dup"})
	assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)

	ideaID := "i-1"
	projectID := 1
	otherProject := 2

	byProject, err := repo.Find(ctx, IdeaFilter{ProjectID: &projectID})
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	byID, err := repo.Find(ctx, IdeaFilter{IdeaID: &ideaID})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "author", byID[0].User.Username)

	both, err := repo.Find(ctx, IdeaFilter{IdeaID: &ideaID, ProjectID: &otherProject})
	require.NoError(t, err)
	assert.Empty(t, both)
}
