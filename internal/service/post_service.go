package service

import (
	"errors"
	"strings"
	"time"

	"github.com/blogengine/internal/cache"
	"github.com/blogengine/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrAuthorNotFound = errors.New("author not found")
	ErrSiteNotFound   = errors.New("site not found")
)

// PostService wraps post related database operations. Every successful write
// routes through the page-cache flush hook exactly once, after commit.
type PostService struct {
	db    *gorm.DB
	pages cache.Flusher
}

// PostInput represents fields accepted when creating or updating a post.
// Updates replace the whole post: a nil CategoryID or empty TagIDs clears
// the association. The one exception is PubDate, where the zero value keeps
// the stored publish date on update and defaults to now on create.
type PostInput struct {
	Title      string
	Text       string
	Slug       string
	PubDate    time.Time
	AuthorID   uint
	SiteID     uint
	CategoryID *uint
	TagIDs     []uint
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB, pages cache.Flusher) *PostService {
	return &PostService{db: gdb, pages: pages}
}

// Get fetches a post by id with associations preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Tags").Preload("Category").Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a post after resolving every supplied reference. Post slugs
// are always supplied explicitly and must be unique across all posts.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("post title is required")
	}
	slugValue := strings.TrimSpace(input.Slug)
	if slugValue == "" {
		return nil, ErrSlugEmpty
	}

	var existing db.Post
	if err := s.db.Where("slug = ?", slugValue).First(&existing).Error; err == nil {
		return nil, ErrSlugTaken
	}

	if err := s.resolveReferences(input); err != nil {
		return nil, err
	}

	pubDate := input.PubDate
	if pubDate.IsZero() {
		pubDate = time.Now()
	}

	post := db.Post{
		Title:      title,
		Text:       input.Text,
		Slug:       slugValue,
		PubDate:    pubDate,
		AuthorID:   input.AuthorID,
		SiteID:     input.SiteID,
		CategoryID: input.CategoryID,
	}

	saved, err := s.saveWithTags(&post, input.TagIDs)
	if err != nil {
		return nil, slugConflict(err)
	}

	flushPages(s.pages)
	return saved, nil
}

// Update applies updates to an existing post, re-validating slug uniqueness
// when the slug changes.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("post title is required")
	}
	slugValue := strings.TrimSpace(input.Slug)
	if slugValue == "" {
		return nil, ErrSlugEmpty
	}

	if slugValue != post.Slug {
		var existing db.Post
		if err := s.db.Where("slug = ? AND id <> ?", slugValue, id).First(&existing).Error; err == nil {
			return nil, ErrSlugTaken
		}
	}

	if err := s.resolveReferences(input); err != nil {
		return nil, err
	}

	post.Title = title
	post.Text = input.Text
	post.Slug = slugValue
	if !input.PubDate.IsZero() {
		post.PubDate = input.PubDate
	}
	post.AuthorID = input.AuthorID
	post.SiteID = input.SiteID
	post.CategoryID = input.CategoryID

	saved, err := s.saveWithTags(&post, input.TagIDs)
	if err != nil {
		return nil, slugConflict(err)
	}

	flushPages(s.pages)
	return saved, nil
}

// Delete removes a post and its tag associations.
func (s *PostService) Delete(id uint) error {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&post).Error
	})
	if err != nil {
		return err
	}

	flushPages(s.pages)
	return nil
}

// resolveReferences rejects writes whose author, site, category or tag
// references do not exist. CategoryID nil means "no category" and is valid.
func (s *PostService) resolveReferences(input PostInput) error {
	var author db.User
	if err := s.db.First(&author, input.AuthorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthorNotFound
		}
		return err
	}

	var site db.Site
	if err := s.db.First(&site, input.SiteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSiteNotFound
		}
		return err
	}

	if input.CategoryID != nil {
		var category db.Category
		if err := s.db.First(&category, *input.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}

	return nil
}

func (s *PostService) saveWithTags(post *db.Post, tagIDs []uint) (*db.Post, error) {
	return post, s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}

		var tags []db.Tag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}

			if len(tags) != len(tagIDs) {
				return ErrTagNotFound
			}
		}

		if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
			return err
		}

		return tx.Preload("Tags").Preload("Category").Preload("Author").First(post, post.ID).Error
	})
}
