package service

import (
	"errors"
	"strings"

	"github.com/blogengine/internal/db"
	"gorm.io/gorm"
)

// DefaultPageSize matches the reference pagination of five posts per page.
const DefaultPageSize = 5

// QueryService exposes the read-only queries used by listings, feeds, search
// and the sitemap. Nothing here mutates state or touches the page cache.
type QueryService struct {
	db *gorm.DB
}

// PostPage aggregates one page of posts with pagination metadata.
type PostPage struct {
	Posts      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewQueryService creates a QueryService instance.
func NewQueryService(gdb *gorm.DB) *QueryService {
	return &QueryService{db: gdb}
}

// List returns posts ordered by publish date descending, paginated. A page
// beyond the last one clamps to the final page instead of coming back empty.
func (s *QueryService) List(page, perPage int) (*PostPage, error) {
	return s.paginate(s.db.Model(&db.Post{}), page, perPage)
}

// ListAll returns every post ordered by publish date descending. Used by the
// global feed and the sitemap, which are not paginated.
func (s *QueryService) ListAll() ([]db.Post, error) {
	var posts []db.Post
	if err := s.preloaded(s.db).
		Order("pub_date desc, id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByCategory returns the posts of the category with the given slug. An
// unresolved slug yields an empty page, not an error, so callers can render a
// "no posts found" outcome.
func (s *QueryService) ListByCategory(slugValue string, page, perPage int) (*PostPage, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", slugValue).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyPage(page, perPage), nil
		}
		return nil, err
	}

	return s.paginate(s.db.Model(&db.Post{}).Where("category_id = ?", category.ID), page, perPage)
}

// AllByCategory returns every post of a category for feed rendering.
func (s *QueryService) AllByCategory(slugValue string) ([]db.Post, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", slugValue).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []db.Post{}, nil
		}
		return nil, err
	}

	var posts []db.Post
	if err := s.preloaded(s.db).
		Where("category_id = ?", category.ID).
		Order("pub_date desc, id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByTag returns the posts carrying the tag with the given slug, with the
// same empty-page contract as ListByCategory.
func (s *QueryService) ListByTag(slugValue string, page, perPage int) (*PostPage, error) {
	var tag db.Tag
	if err := s.db.Where("slug = ?", slugValue).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyPage(page, perPage), nil
		}
		return nil, err
	}

	return s.paginate(s.taggedPosts(tag.ID), page, perPage)
}

// AllByTag returns every post carrying a tag for feed rendering.
func (s *QueryService) AllByTag(slugValue string) ([]db.Post, error) {
	var tag db.Tag
	if err := s.db.Where("slug = ?", slugValue).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []db.Post{}, nil
		}
		return nil, err
	}

	var posts []db.Post
	if err := s.preloaded(s.taggedPosts(tag.ID)).
		Order("pub_date desc, id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Search returns posts whose title or text contains query case-insensitively.
// An empty query yields an empty page.
func (s *QueryService) Search(query string, page, perPage int) (*PostPage, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return emptyPage(page, perPage), nil
	}

	pattern := "%" + strings.ToLower(trimmed) + "%"
	filtered := s.db.Model(&db.Post{}).
		Where("lower(title) LIKE ? OR lower(text) LIKE ?", pattern, pattern)

	return s.paginate(filtered, page, perPage)
}

// GetBySlugAndDate resolves a post through its canonical URL components.
func (s *QueryService) GetBySlugAndDate(year, month int, slugValue string) (*db.Post, error) {
	var post db.Post
	if err := s.preloaded(s.db).Where("slug = ?", slugValue).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	// Slugs are unique, so the date segments only confirm the canonical URL.
	if post.PubDate.Year() != year || int(post.PubDate.Month()) != month {
		return nil, ErrPostNotFound
	}

	return &post, nil
}

func (s *QueryService) taggedPosts(tagID uint) *gorm.DB {
	return s.db.Model(&db.Post{}).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id = ?", tagID)
}

func (s *QueryService) preloaded(query *gorm.DB) *gorm.DB {
	return query.Preload("Tags").Preload("Category").Preload("Author")
}

func (s *QueryService) paginate(filtered *gorm.DB, page, perPage int) (*PostPage, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}

	result := &PostPage{Page: page, PerPage: perPage}

	countQuery := filtered.Session(&gorm.Session{})
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(perPage) - 1) / int64(perPage))
	}

	// Out-of-range pages clamp to the last valid page.
	if result.Page > result.TotalPages {
		result.Page = result.TotalPages
	}

	offset := (result.Page - 1) * perPage

	var posts []db.Post
	dataQuery := s.preloaded(filtered.Session(&gorm.Session{}))
	if err := dataQuery.
		Order("pub_date desc, id desc").
		Limit(perPage).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	result.Posts = posts
	return result, nil
}

func emptyPage(page, perPage int) *PostPage {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &PostPage{Posts: []db.Post{}, Page: 1, TotalPages: 1, PerPage: perPage}
}
