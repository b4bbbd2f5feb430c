// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"projecthub/internal/database"
	"projecthub/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewTestDB opens a private in-memory sqlite database with the full schema.
// The pool is pinned to one connection so every query sees the same database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// MustCreateUser inserts a user with a throwaway password hash.
func MustCreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$10$notarealhashnotarealhashnotarealhashnotarealhashnotar",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// MustCreatePost inserts a post authored by userID at ts.
func MustCreatePost(t testing.TB, db *gorm.DB, userID uint, content string, ts time.Time) *models.Post {
	t.Helper()
	p := &models.Post{UserID: userID, Content: content, Timestamp: ts}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// MustFollow inserts a follow edge directly.
func MustFollow(t testing.TB, db *gorm.DB, from, to uint) {
	t.Helper()
	if err := db.Create(&models.Relationship{FromUserID: from, ToUserID: to}).Error; err != nil {
		t.Fatalf("follow %d->%d: %v", from, to, err)
	}
}
