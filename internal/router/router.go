package router

import (
	"html/template"

	"github.com/blogengine/internal/cache"
	"github.com/blogengine/internal/handler"
	"github.com/blogengine/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Setup 配置 Gin 引擎和路由。pages 为 nil 时禁用整页缓存。
func Setup(api *handler.API, sessionSecret string, pages cache.PageCache) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("blogengine_session", store))

	// 整页缓存只作用于公开 GET 页面，/admin 始终绕过
	r.Use(handler.PageCacheMiddleware(pages))

	// 加载模板并添加自定义函数
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"gt":  func(a, b int) bool { return a > b },
		"lt":  func(a, b int) bool { return a < b },
	}).ParseFS(web.Templates, "template/*.html"))
	r.SetHTMLTemplate(tmpl)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 公开页面
	r.GET("/", api.ShowIndex)
	r.GET("/page/:page", api.ShowIndex)
	r.GET("/category/:slug", api.ShowCategory)
	r.GET("/tag/:slug", api.ShowTag)
	r.GET("/search", api.ShowSearch)

	// RSS 与站点地图
	r.GET("/feeds/posts", api.PostsFeed)
	r.GET("/feeds/posts/category/:slug", api.CategoryPostsFeed)
	r.GET("/feeds/posts/tag/:slug", api.TagPostsFeed)
	r.GET("/sitemap.xml", api.Sitemap)

	// 文章正文路径 /{year}/{month}/{slug}/ 与静态页面路径 /{slug}/ 均与
	// 上面的静态前缀冲突，改由 NoRoute 兜底解析
	r.NoRoute(api.ShowContentFallback)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.ShowDashboard)

			// API路由
			restricted := auth.Group("/api")
			{
				restricted.GET("/posts", api.GetPosts)
				restricted.GET("/posts/:id", api.GetPost)
				restricted.POST("/posts", api.CreatePost)
				restricted.PUT("/posts/:id", api.UpdatePost)
				restricted.DELETE("/posts/:id", api.DeletePost)

				restricted.GET("/categories", api.GetCategories)
				restricted.POST("/categories", api.CreateCategory)
				restricted.PUT("/categories/:id", api.UpdateCategory)
				restricted.DELETE("/categories/:id", api.DeleteCategory)

				restricted.GET("/tags", api.GetTags)
				restricted.POST("/tags", api.CreateTag)
				restricted.PUT("/tags/:id", api.UpdateTag)
				restricted.DELETE("/tags/:id", api.DeleteTag)

				restricted.GET("/pages", api.GetPages)
				restricted.POST("/pages", api.CreatePage)
				restricted.PUT("/pages/:id", api.UpdatePage)
				restricted.DELETE("/pages/:id", api.DeletePage)
			}
		}
	}

	return r
}
