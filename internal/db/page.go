package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Page 定义了独立静态页面模型，例如 About。
type Page struct {
	gorm.Model
	Slug    string `gorm:"uniqueIndex;not null"`
	Title   string `gorm:"not null"`
	Content string `gorm:"type:text"`
}

// PublicPath returns the root-level path the page is served under.
func (p Page) PublicPath() string {
	return fmt.Sprintf("/%s/", p.Slug)
}
