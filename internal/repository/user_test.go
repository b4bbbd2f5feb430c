package repository

import (
	"context"
	"regexp"
	"testing"

	"projecthub/internal/models"
	"projecthub/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		expectedUser *models.User
		expectedCode string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(1, "testuser", "test@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Username: "testuser", Email: "test@example.com"},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedCode: models.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedCode != "" {
				assert.True(t, models.HasCode(err, tt.expectedCode), "got %v", err)
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.expectedUser.Username, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Integration(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Username: "Alice", Email: "  Alice@Example.COM ", Password: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, models.DefaultPhoto, u.Photo)
	assert.False(t, u.JoinedAt.IsZero())

	t.Run("GetByUsername is case insensitive", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "aLiCe")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = repo.GetByUsername(ctx, "ghost")
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("GetByEmail", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.ID, got.ID)

		missing, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("Taken", func(t *testing.T) {
		name, email, err := repo.Taken(ctx, "alice", "other@example.com")
		require.NoError(t, err)
		assert.True(t, name)
		assert.False(t, email)

		name, email, err = repo.Taken(ctx, "bob", "alice@example.com")
		require.NoError(t, err)
		assert.False(t, name)
		assert.True(t, email)
	})

	t.Run("username differing only in case is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "aLICE", Email: "other@example.com", Password: "hash"})
		assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)

		var n int64
		require.NoError(t, db.Model(&models.User{}).Where("LOWER(username) = ?", "alice").Count(&n).Error)
		assert.EqualValues(t, 1, n)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "alice2", Email: "alice@example.com", Password: "hash"})
		assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)
	})

	t.Run("UpdatePhoto", func(t *testing.T) {
		require.NoError(t, repo.UpdatePhoto(ctx, u.ID, "/media/photos/1/x.webp"))
		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "/media/photos/1/x.webp", got.Photo)

		err = repo.UpdatePhoto(ctx, 9999, "x")
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("List orders by username", func(t *testing.T) {
		testutil.MustCreateUser(t, db, "Zed")
		testutil.MustCreateUser(t, db, "Bob")
		users, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, []string{"Alice", "Bob", "Zed"}, []string{users[0].Username, users[1].Username, users[2].Username})
	})
}

func TestUserRepository_GetByUsernameUsesFoldedKey(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username_key = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("alice", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "username_key"}).AddRow(3, "Alice", "alice"))

	user, err := repo.GetByUsername(context.Background(), "  ALICE ")
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueConstraintError(assert.AnError))
}
