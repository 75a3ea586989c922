package handler

import (
	"bytes"
	"html/template"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	visitorCookieName   = "blogengine_visitor_id"
	visitorCookieMaxAge = 365 * 24 * 60 * 60
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()

	// Canonical post URLs: /{year}/{month}/{slug}/ with 1-2 digit months.
	postPathPattern = regexp.MustCompile(`^/(\d{4})/(\d{1,2})/([a-zA-Z0-9-]+)/?$`)
	// Flat pages live directly under the root, e.g. /about/.
	pagePathPattern = regexp.MustCompile(`^/([a-zA-Z0-9-]+)/?$`)
)

// ShowIndex renders the paginated front page, most recent posts first.
func (a *API) ShowIndex(c *gin.Context) {
	page := parsePositiveInt(c.Param("page"), 1)
	if page == 1 {
		page = parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	}

	posts, err := a.queries.List(page, a.pageSize)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "post_list.html", gin.H{
			"title": a.siteName,
			"error": "failed to load posts",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "post_list.html", gin.H{
		"title":      a.siteName,
		"posts":      posts.Posts,
		"page":       posts.Page,
		"totalPages": posts.TotalPages,
	})
}

// ShowContentFallback resolves the root-level content URLs that cannot be
// registered as routes: a :year or :slug parameter at the root would collide
// with the static /category and /tag routes, so canonical post paths and
// flat page slugs are dispatched from NoRoute instead.
func (a *API) ShowContentFallback(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		if match := postPathPattern.FindStringSubmatch(c.Request.URL.Path); match != nil {
			a.showPostDetail(c, match)
			return
		}
		if match := pagePathPattern.FindStringSubmatch(c.Request.URL.Path); match != nil {
			a.showPage(c, match[1])
			return
		}
	}

	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{"title": "Not found"})
}

// showPostDetail renders a post from its canonical URL match.
func (a *API) showPostDetail(c *gin.Context, match []string) {
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])

	post, err := a.queries.GetBySlugAndDate(year, month, match[3])
	if err != nil {
		a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{"title": "Not found"})
		return
	}

	a.ensureVisitorID(c)

	a.renderHTML(c, http.StatusOK, "post_detail.html", gin.H{
		"title":   post.Title,
		"post":    post,
		"content": renderMarkdown(post.Text),
	})
}

// showPage renders a flat page such as /about/.
func (a *API) showPage(c *gin.Context, slugValue string) {
	page, err := a.staticPages.GetBySlug(slugValue)
	if err != nil {
		a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{"title": "Not found"})
		return
	}

	a.renderHTML(c, http.StatusOK, "page.html", gin.H{
		"title":   page.Title,
		"page":    page,
		"content": renderMarkdown(page.Content),
	})
}

// ensureVisitorID hands returning readers a stable anonymous id. Cached
// responses skip this, so the cookie is only issued on a cache miss.
func (a *API) ensureVisitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}

	visitorID := uuid.NewString()
	secure := c.Request.TLS != nil

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     visitorCookieName,
		Value:    visitorID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   visitorCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})

	return visitorID
}

// ShowCategory lists the posts of one category. An unknown slug renders the
// same template with an empty post list, not an error page.
func (a *API) ShowCategory(c *gin.Context) {
	slugValue := c.Param("slug")
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	posts, err := a.queries.ListByCategory(slugValue, page, a.pageSize)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "category_posts.html", gin.H{
			"title": "Category",
			"error": "failed to load posts",
		})
		return
	}

	data := gin.H{
		"title":      "Category: " + slugValue,
		"posts":      posts.Posts,
		"page":       posts.Page,
		"totalPages": posts.TotalPages,
	}
	if category, err := a.categories.GetBySlug(slugValue); err == nil {
		data["category"] = category
		data["title"] = "Category: " + category.Name
	}

	a.renderHTML(c, http.StatusOK, "category_posts.html", data)
}

// ShowTag lists the posts carrying one tag, with the same empty-list contract
// as ShowCategory.
func (a *API) ShowTag(c *gin.Context) {
	slugValue := c.Param("slug")
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	posts, err := a.queries.ListByTag(slugValue, page, a.pageSize)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "tag_posts.html", gin.H{
			"title": "Tag",
			"error": "failed to load posts",
		})
		return
	}

	data := gin.H{
		"title":      "Tag: " + slugValue,
		"posts":      posts.Posts,
		"page":       posts.Page,
		"totalPages": posts.TotalPages,
	}
	if tag, err := a.tags.GetBySlug(slugValue); err == nil {
		data["tag"] = tag
		data["title"] = "Tag: " + tag.Name
	}

	a.renderHTML(c, http.StatusOK, "tag_posts.html", data)
}

// ShowSearch renders posts matching the q parameter over title or text.
func (a *API) ShowSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	posts, err := a.queries.Search(query, page, a.pageSize)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "search_results.html", gin.H{
			"title": "Search",
			"error": "failed to search posts",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "search_results.html", gin.H{
		"title":      "Search",
		"search":     query,
		"posts":      posts.Posts,
		"page":       posts.Page,
		"totalPages": posts.TotalPages,
	})
}

func renderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
