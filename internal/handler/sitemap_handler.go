package handler

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap serves sitemap.xml with the front page, every post URL and every
// flat page URL.
func (a *API) Sitemap(c *gin.Context) {
	posts, err := a.queries.ListAll()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}

	staticPages, err := a.staticPages.List()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}

	urls := make([]sitemapURL, 0, len(posts)+len(staticPages)+1)
	urls = append(urls, sitemapURL{
		Loc:        a.baseURL + "/",
		ChangeFreq: "daily",
		Priority:   "0.8",
	})

	for _, post := range posts {
		urls = append(urls, sitemapURL{
			Loc:        a.baseURL + post.PublicPath(),
			LastMod:    post.PubDate.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.5",
		})
	}

	for _, page := range staticPages {
		urls = append(urls, sitemapURL{
			Loc:        a.baseURL + page.PublicPath(),
			LastMod:    page.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.5",
		})
	}

	payload, err := xml.MarshalIndent(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}, "", "  ")
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), payload...))
}
