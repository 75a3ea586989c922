package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Tag 定义了标签模型
type Tag struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	Slug        string `gorm:"uniqueIndex;not null"`
	Posts       []Post `gorm:"many2many:post_tags;"`
}

// PublicPath returns the canonical listing path for the tag.
func (t Tag) PublicPath() string {
	return fmt.Sprintf("/tag/%s/", t.Slug)
}
