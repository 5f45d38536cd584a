package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/uutiset/internal/config"
	"github.com/uutiset/internal/counter"
	"github.com/uutiset/internal/db"
	"github.com/uutiset/internal/handler"
	"github.com/uutiset/internal/router"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	store, err := counterStore(cfg)
	if err != nil {
		log.Fatalf("failed to initialize counter store: %v", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, store, cfg)
	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

func counterStore(cfg config.AppConfig) (counter.Store, error) {
	if cfg.RedisAddr == "" {
		log.Printf("REDIS_ADDR not set, using in-process counter store (dev only)")
		return counter.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return counter.NewRedisStore(client)
}
