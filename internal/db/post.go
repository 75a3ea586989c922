package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Post 定义了文章模型
type Post struct {
	gorm.Model
	Title      string    `gorm:"not null"`
	PubDate    time.Time `gorm:"index;not null"`
	Text       string    `gorm:"type:text"`
	Slug       string    `gorm:"uniqueIndex;not null"`
	AuthorID   uint      `gorm:"not null"`
	Author     User      `gorm:"foreignKey:AuthorID"`
	SiteID     uint      `gorm:"not null"`
	Site       Site
	CategoryID *uint
	Category   *Category
	Tags       []Tag `gorm:"many2many:post_tags;"`
}

// PublicPath returns the canonical path for the post. The month segment is
// not zero padded, so a March post lives under /2026/3/slug/.
func (p Post) PublicPath() string {
	return fmt.Sprintf("/%d/%d/%s/", p.PubDate.Year(), int(p.PubDate.Month()), p.Slug)
}
