package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Site 定义了发布站点模型，支持多站点部署。
type Site struct {
	gorm.Model
	Name    string `gorm:"not null"`
	BaseURL string `gorm:"uniqueIndex;not null"`
}

// EnsureSite returns the site registered under baseURL, creating it on first boot.
func EnsureSite(gdb *gorm.DB, name, baseURL string) (*Site, error) {
	trimmedName := strings.TrimSpace(name)
	trimmedURL := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmedName == "" || trimmedURL == "" {
		return nil, errors.New("site name and base url are required")
	}

	var site Site
	err := gdb.Where("base_url = ?", trimmedURL).First(&site).Error
	if err == nil {
		return &site, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	site = Site{Name: trimmedName, BaseURL: trimmedURL}
	if err := gdb.Create(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}
