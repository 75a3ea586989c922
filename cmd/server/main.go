package main

import (
	"os"
	"time"

	"github.com/blogengine/internal/cache"
	"github.com/blogengine/internal/config"
	"github.com/blogengine/internal/db"
	"github.com/blogengine/internal/handler"
	"github.com/blogengine/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	site, err := db.EnsureSite(gdb, cfg.SiteName, cfg.SiteBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to ensure default site")
	}

	if err := db.EnsureUser(gdb, cfg.AdminUserName, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure admin user")
	}

	pages, err := cache.NewRenderedPageCache(cfg.CacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize page cache")
	}

	api := handler.NewAPI(gdb, pages, site.ID, cfg)
	r := router.Setup(api, cfg.SessionSecret, pages)

	log.Info().Str("addr", cfg.ListenAddr).Str("site", site.BaseURL).Msg("starting blog server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to run server")
	}
}
