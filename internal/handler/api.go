package handler

import (
	"time"

	"github.com/blogengine/internal/cache"
	"github.com/blogengine/internal/config"
	"github.com/blogengine/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	posts       *service.PostService
	categories  *service.CategoryService
	tags        *service.TagService
	staticPages *service.PageService
	queries     *service.QueryService
	siteID      uint
	siteName    string
	baseURL     string
	pageSize    int
}

// NewAPI constructs a handler set with shared services. pages is the
// rendered-page cache flushed by the write services; it may be nil in tests.
func NewAPI(gdb *gorm.DB, pages cache.Flusher, siteID uint, cfg config.AppConfig) *API {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = service.DefaultPageSize
	}

	return &API{
		db:          gdb,
		posts:       service.NewPostService(gdb, pages),
		categories:  service.NewCategoryService(gdb, pages),
		tags:        service.NewTagService(gdb, pages),
		staticPages: service.NewPageService(gdb, pages),
		queries:     service.NewQueryService(gdb),
		siteID:      siteID,
		siteName:    cfg.SiteName,
		baseURL:     cfg.SiteBaseURL,
		pageSize:    pageSize,
	}
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = a.siteName
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}

	c.HTML(status, template, payload)
}
