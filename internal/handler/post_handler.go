package handler

import (
	"net/http"
	"time"

	"github.com/blogengine/internal/service"
	"github.com/gin-gonic/gin"
)

type postPayload struct {
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Slug       string    `json:"slug"`
	PubDate    time.Time `json:"pubDate"`
	CategoryID *uint     `json:"categoryId"`
	TagIDs     []uint    `json:"tagIds"`
}

// GetPosts 获取文章列表
func (a *API) GetPosts(c *gin.Context) {
	posts, err := a.queries.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost 获取单篇文章
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost 创建新文章
func (a *API) CreatePost(c *gin.Context) {
	var payload postPayload
	if !bindJSON(c, &payload, "invalid post payload") {
		return
	}

	authorID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not signed in")
		return
	}

	post, err := a.posts.Create(service.PostInput{
		Title:      payload.Title,
		Text:       payload.Text,
		Slug:       payload.Slug,
		PubDate:    payload.PubDate,
		AuthorID:   authorID,
		SiteID:     a.siteID,
		CategoryID: payload.CategoryID,
		TagIDs:     payload.TagIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost 更新文章
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	var payload postPayload
	if !bindJSON(c, &payload, "invalid post payload") {
		return
	}

	// Editing does not reassign authorship.
	existing, err := a.posts.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	post, err := a.posts.Update(id, service.PostInput{
		Title:      payload.Title,
		Text:       payload.Text,
		Slug:       payload.Slug,
		PubDate:    payload.PubDate,
		AuthorID:   existing.AuthorID,
		SiteID:     existing.SiteID,
		CategoryID: payload.CategoryID,
		TagIDs:     payload.TagIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost 删除文章
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}
