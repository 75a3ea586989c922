package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/blogengine/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// PostsFeed serves the global RSS feed, every post in publish order.
func (a *API) PostsFeed(c *gin.Context) {
	posts, err := a.queries.ListAll()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build feed")
		return
	}

	a.writeFeed(c, "RSS feed - posts", a.baseURL+"/", "RSS feed - blog posts", posts)
}

// CategoryPostsFeed serves the per-category RSS feed. Unlike the HTML
// listing, an unresolved category slug here is a hard 404.
func (a *API) CategoryPostsFeed(c *gin.Context) {
	slugValue := c.Param("slug")

	category, err := a.categories.GetBySlug(slugValue)
	if err != nil {
		c.String(http.StatusNotFound, "category not found")
		return
	}

	posts, err := a.queries.AllByCategory(slugValue)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build feed")
		return
	}

	title := fmt.Sprintf("RSS feed - blog posts in category %s", category.Name)
	a.writeFeed(c, title, a.baseURL+category.PublicPath(), title, posts)
}

// TagPostsFeed serves the per-tag RSS feed with the same 404 contract.
func (a *API) TagPostsFeed(c *gin.Context) {
	slugValue := c.Param("slug")

	tag, err := a.tags.GetBySlug(slugValue)
	if err != nil {
		c.String(http.StatusNotFound, "tag not found")
		return
	}

	posts, err := a.queries.AllByTag(slugValue)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build feed")
		return
	}

	title := fmt.Sprintf("RSS feed - blog posts tagged %s", tag.Name)
	a.writeFeed(c, title, a.baseURL+tag.PublicPath(), title, posts)
}

func (a *API) writeFeed(c *gin.Context, title, link, description string, posts []db.Post) {
	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       title,
			Link:        link,
			Description: description,
			Items: lo.Map(posts, func(post db.Post, _ int) rssItem {
				permalink := a.baseURL + post.PublicPath()
				return rssItem{
					Title:       post.Title,
					Link:        permalink,
					GUID:        permalink,
					PubDate:     post.PubDate.Format(time.RFC1123Z),
					Description: string(renderMarkdown(post.Text)),
				}
			}),
		},
	}

	payload, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build feed")
		return
	}

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", append([]byte(xml.Header), payload...))
}
