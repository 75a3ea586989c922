package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Category 定义了分类模型，每篇文章至多属于一个分类。
type Category struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	Slug        string `gorm:"uniqueIndex;not null"`
}

// PublicPath returns the canonical listing path for the category.
func (c Category) PublicPath() string {
	return fmt.Sprintf("/category/%s/", c.Slug)
}
