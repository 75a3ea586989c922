package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/blogengine/internal/cache"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PageCacheMiddleware serves public GET responses out of the rendered-page
// cache, keyed by request URI. Admin routes always bypass the cache. The
// write services flush the whole cache, so a hit is never staler than the
// last post write or the configured TTL.
func PageCacheMiddleware(pages cache.PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pages == nil ||
			c.Request.Method != http.MethodGet ||
			strings.HasPrefix(c.Request.URL.Path, "/admin") {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if page, ok := pages.Get(c.Request.Context(), key); ok {
			c.Data(http.StatusOK, page.ContentType, page.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		if recorder.Status() != http.StatusOK {
			return
		}

		err := pages.Set(c.Request.Context(), key, cache.Page{
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		})
		if err != nil {
			log.Debug().Err(err).Str("key", key).Msg("failed to cache rendered page")
		}
	}
}

// bodyRecorder tees the response body so a copy can be cached after the
// handler has written it.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(data []byte) (int, error) {
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}

func (r *bodyRecorder) WriteString(data string) (int, error) {
	r.body.WriteString(data)
	return r.ResponseWriter.WriteString(data)
}
