package service

import (
	"errors"
	"strings"

	"github.com/blogengine/internal/cache"
	"github.com/blogengine/internal/db"
	"github.com/blogengine/internal/slug"
	"gorm.io/gorm"
)

var ErrTagNotFound = errors.New("tag not found")

// TagService wraps tag related database operations.
type TagService struct {
	db    *gorm.DB
	pages cache.Flusher
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB, pages cache.Flusher) *TagService {
	return &TagService{db: gdb, pages: pages}
}

// List returns all tags ordered by name.
func (s *TagService) List() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.Order("name asc").Order("id asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetBySlug fetches a single tag by its slug.
func (s *TagService) GetBySlug(slugValue string) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.Where("slug = ?", slugValue).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// Create inserts a tag, deriving the slug from name when none is given.
// Slug namespaces are per entity type, so a tag may share a slug with a
// category but never with another tag.
func (s *TagService) Create(name, description, explicitSlug string) (*db.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tag name is required")
	}

	slugValue := strings.TrimSpace(explicitSlug)
	if slugValue == "" {
		slugValue = slug.Make(name)
	}
	if slugValue == "" {
		return nil, ErrSlugEmpty
	}

	var existing db.Tag
	if err := s.db.Where("slug = ?", slugValue).First(&existing).Error; err == nil {
		return nil, ErrSlugTaken
	}

	tag := db.Tag{Name: name, Description: description, Slug: slugValue}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, slugConflict(err)
	}

	return &tag, nil
}

// Update changes name and description, keeping the slug untouched.
func (s *TagService) Update(id uint, name, description string) (*db.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tag name is required")
	}

	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	tag.Name = name
	tag.Description = description
	if err := s.db.Save(&tag).Error; err != nil {
		return nil, err
	}

	return &tag, nil
}

// Delete removes a tag and detaches it from every post that carried it.
// Tagged posts survive with the tag gone from their set.
func (s *TagService) Delete(id uint) error {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tag).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&tag).Error
	})
	if err != nil {
		return err
	}

	flushPages(s.pages)
	return nil
}
