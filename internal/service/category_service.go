package service

import (
	"context"
	"errors"
	"strings"

	"github.com/blogengine/internal/cache"
	"github.com/blogengine/internal/db"
	"github.com/blogengine/internal/slug"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	// ErrSlugTaken 表示同类实体下的 slug 冲突，由调用方负责向用户提示。
	ErrSlugTaken        = errors.New("slug is already in use")
	ErrSlugEmpty        = errors.New("slug could not be derived from name")
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryService wraps category related database operations.
type CategoryService struct {
	db    *gorm.DB
	pages cache.Flusher
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB, pages cache.Flusher) *CategoryService {
	return &CategoryService{db: gdb, pages: pages}
}

// List returns all categories ordered by name.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("name asc").Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetBySlug fetches a single category by its slug.
func (s *CategoryService) GetBySlug(slugValue string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", slugValue).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a category, deriving the slug from name when none is given.
// A colliding slug is rejected, never suffixed.
func (s *CategoryService) Create(name, description, explicitSlug string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	slugValue := strings.TrimSpace(explicitSlug)
	if slugValue == "" {
		slugValue = slug.Make(name)
	}
	if slugValue == "" {
		return nil, ErrSlugEmpty
	}

	var existing db.Category
	if err := s.db.Where("slug = ?", slugValue).First(&existing).Error; err == nil {
		return nil, ErrSlugTaken
	}

	category := db.Category{Name: name, Description: description, Slug: slugValue}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, slugConflict(err)
	}

	return &category, nil
}

// Update changes name and description. The slug is immutable once set and is
// never re-derived.
func (s *CategoryService) Update(id uint, name, description string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	category.Name = name
	category.Description = description
	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

// Delete removes a category and clears the reference on every post that used
// it. Referencing posts survive with an empty category.
func (s *CategoryService) Delete(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&category).Error
	})
	if err != nil {
		return err
	}

	// Rendered pages may embed the category name and the affected posts.
	flushPages(s.pages)
	return nil
}

// slugConflict maps the driver's unique index violation onto ErrSlugTaken.
// The pre-checks only see committed rows, so a concurrent writer can slip
// past them and land on the index instead.
func slugConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

// flushPages clears the rendered-page cache after a committed write. Flush
// failures must never surface to the caller.
func flushPages(pages cache.Flusher) {
	if pages == nil {
		return
	}
	if err := pages.Flush(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to flush rendered page cache")
	}
}
