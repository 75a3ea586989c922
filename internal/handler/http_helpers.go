package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/blogengine/internal/service"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parsePositiveInt(value string, fallback int) int {
	num, err := strconv.Atoi(value)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

// respondServiceError maps the typed service errors onto HTTP statuses for
// the admin JSON APIs.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, http.StatusConflict, "slug is already in use")
	case errors.Is(err, service.ErrSlugEmpty):
		respondError(c, http.StatusBadRequest, "slug is missing and could not be derived")
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrTagNotFound),
		errors.Is(err, service.ErrPageNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAuthorNotFound),
		errors.Is(err, service.ErrSiteNotFound):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
