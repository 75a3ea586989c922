package service

import (
	"errors"
	"strings"

	"github.com/blogengine/internal/cache"
	"github.com/blogengine/internal/db"
	"github.com/blogengine/internal/slug"
	"gorm.io/gorm"
)

var ErrPageNotFound = errors.New("page not found")

// PageService provides access to standalone static pages such as About.
type PageService struct {
	db    *gorm.DB
	pages cache.Flusher
}

// NewPageService creates a PageService instance.
func NewPageService(gdb *gorm.DB, pages cache.Flusher) *PageService {
	return &PageService{db: gdb, pages: pages}
}

// List returns all pages ordered by title.
func (s *PageService) List() ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.Order("title asc").Order("id asc").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// GetBySlug fetches a page for a given slug.
func (s *PageService) GetBySlug(slugValue string) (*db.Page, error) {
	var page db.Page
	if err := s.db.Where("slug = ?", slugValue).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Create inserts a page, deriving the slug from the title when none is given.
// A colliding slug is rejected, never suffixed.
func (s *PageService) Create(title, content, explicitSlug string) (*db.Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("page title is required")
	}

	slugValue := strings.TrimSpace(explicitSlug)
	if slugValue == "" {
		slugValue = slug.Make(title)
	}
	if slugValue == "" {
		return nil, ErrSlugEmpty
	}

	var existing db.Page
	if err := s.db.Where("slug = ?", slugValue).First(&existing).Error; err == nil {
		return nil, ErrSlugTaken
	}

	page := db.Page{Slug: slugValue, Title: title, Content: content}
	if err := s.db.Create(&page).Error; err != nil {
		return nil, slugConflict(err)
	}

	flushPages(s.pages)
	return &page, nil
}

// Update changes title and content. The slug is immutable once set and is
// never re-derived.
func (s *PageService) Update(id uint, title, content string) (*db.Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("page title is required")
	}

	var page db.Page
	if err := s.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	page.Title = title
	page.Content = content
	if err := s.db.Save(&page).Error; err != nil {
		return nil, err
	}

	flushPages(s.pages)
	return &page, nil
}

// Delete removes a page.
func (s *PageService) Delete(id uint) error {
	var page db.Page
	if err := s.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPageNotFound
		}
		return err
	}

	if err := s.db.Unscoped().Delete(&page).Error; err != nil {
		return err
	}

	flushPages(s.pages)
	return nil
}
