package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/blogengine/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingFlusher counts flush calls so tests can assert the invalidation
// hook fires exactly once per successful write.
type recordingFlusher struct {
	calls int
	err   error
}

func (f *recordingFlusher) Flush(_ context.Context) error {
	f.calls++
	return f.err
}

func setupServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func seedAuthorAndSite(t *testing.T, gdb *gorm.DB) (uint, uint) {
	t.Helper()

	author := db.User{Username: "editor", Password: "hashed"}
	if err := gdb.Create(&author).Error; err != nil {
		t.Fatalf("failed to seed author: %v", err)
	}

	site := db.Site{Name: "Example Blog", BaseURL: "http://example.com"}
	if err := gdb.Create(&site).Error; err != nil {
		t.Fatalf("failed to seed site: %v", err)
	}

	return author.ID, site.ID
}

func mustCreatePost(t *testing.T, posts *PostService, input PostInput) *db.Post {
	t.Helper()

	post, err := posts.Create(input)
	if err != nil {
		t.Fatalf("failed to create post %q: %v", input.Slug, err)
	}
	return post
}

func assertIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
