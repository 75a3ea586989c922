package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blogengine/internal/cache"
	"github.com/blogengine/internal/config"
	"github.com/blogengine/internal/db"
	"github.com/blogengine/internal/handler"
	"github.com/blogengine/internal/router"
	"github.com/blogengine/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ginOnce sync.Once

// memoryPageCache is a deterministic PageCache for tests, replacing the
// ristretto-backed cache whose admission is asynchronous.
type memoryPageCache struct {
	mu      sync.Mutex
	pages   map[string]cache.Page
	flushes int
}

func newMemoryPageCache() *memoryPageCache {
	return &memoryPageCache{pages: make(map[string]cache.Page)}
}

func (m *memoryPageCache) Get(_ context.Context, key string) (cache.Page, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, ok := m.pages[key]
	return page, ok
}

func (m *memoryPageCache) Set(_ context.Context, key string, page cache.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[key] = page
	return nil
}

func (m *memoryPageCache) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = make(map[string]cache.Page)
	m.flushes++
	return nil
}

type testApp struct {
	gdb      *gorm.DB
	router   *gin.Engine
	pages    *memoryPageCache
	posts    *service.PostService
	authorID uint
	siteID   uint
}

func testConfig() config.AppConfig {
	return config.AppConfig{
		SessionSecret: "test-secret",
		SiteName:      "Example Blog",
		SiteBaseURL:   "http://example.com",
		PageSize:      5,
	}
}

func setupTestApp(t *testing.T) (*testApp, func()) {
	t.Helper()

	ginOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	if err := db.EnsureUser(gdb, "editor", "correct horse"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	var author db.User
	if err := gdb.Where("username = ?", "editor").First(&author).Error; err != nil {
		t.Fatalf("failed to load seeded user: %v", err)
	}

	site, err := db.EnsureSite(gdb, "Example Blog", "http://example.com")
	if err != nil {
		t.Fatalf("failed to seed site: %v", err)
	}

	cfg := testConfig()
	pages := newMemoryPageCache()
	api := handler.NewAPI(gdb, pages, site.ID, cfg)
	r := router.Setup(api, cfg.SessionSecret, pages)

	app := &testApp{
		gdb:      gdb,
		router:   r,
		pages:    pages,
		posts:    service.NewPostService(gdb, pages),
		authorID: author.ID,
		siteID:   site.ID,
	}

	return app, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func (app *testApp) createPost(t *testing.T, title, slug string, pubDate time.Time, categoryID *uint, tagIDs []uint) *db.Post {
	t.Helper()

	post, err := app.posts.Create(service.PostInput{
		Title:      title,
		Text:       "This is the body of " + title,
		Slug:       slug,
		PubDate:    pubDate,
		AuthorID:   app.authorID,
		SiteID:     app.siteID,
		CategoryID: categoryID,
		TagIDs:     tagIDs,
	})
	if err != nil {
		t.Fatalf("failed to create post %q: %v", slug, err)
	}
	return post
}

func (app *testApp) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	app.router.ServeHTTP(w, req)
	return w
}

func assertContains(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Fatalf("expected body to contain %q, got:\n%s", want, body)
	}
}

func assertNotContains(t *testing.T, body, want string) {
	t.Helper()
	if strings.Contains(body, want) {
		t.Fatalf("expected body to not contain %q, got:\n%s", want, body)
	}
}
