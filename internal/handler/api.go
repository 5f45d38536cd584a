package handler

import (
	"time"

	"github.com/uutiset/internal/config"
	"github.com/uutiset/internal/counter"
	"github.com/uutiset/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	engage   *service.EngagementService
	comments *service.CommentService
	salt     string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store counter.Store, cfg config.AppConfig) *API {
	limiter := service.NewRateLimiter(store)
	blocks := service.NewBlockRuleService(gdb)
	window := time.Duration(cfg.CommentRateWindow) * time.Second

	return &API{
		db:       gdb,
		engage:   service.NewEngagementService(store, cfg.RetentionDays),
		comments: service.NewCommentService(gdb, blocks, limiter, window, cfg.CommentRateLimit),
		salt:     cfg.FingerprintSalt,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
