package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SessionSecret     string
	GinMode           string
	FingerprintSalt   string
	RetentionDays     int
	CommentRateLimit  int64
	CommentRateWindow int
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// FingerprintSalt 没有默认值，必须通过 Validate 在启动时校验。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "uutiset.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "uutiset-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	// REDIS_ADDR 为空时计数后端退化为进程内存实现，仅用于本地开发。
	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      databasePath,
		RedisAddr:         redisAddr,
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           intFromEnv("REDIS_DB", 0),
		SessionSecret:     sessionSecret,
		GinMode:           ginMode,
		FingerprintSalt:   strings.TrimSpace(os.Getenv("FINGERPRINT_SALT")),
		RetentionDays:     intFromEnv("RETENTION_DAYS", 40),
		CommentRateLimit:  int64(intFromEnv("COMMENT_RATE_LIMIT", 10)),
		CommentRateWindow: intFromEnv("COMMENT_RATE_WINDOW_SECONDS", 600),
	}
}

// Validate 在启动阶段做快速失败校验，避免把配置错误留到请求路径上。
func (c AppConfig) Validate() error {
	if c.FingerprintSalt == "" {
		return errors.New("config: FINGERPRINT_SALT is required")
	}
	if c.RetentionDays <= 0 {
		return errors.New("config: RETENTION_DAYS must be positive")
	}
	if c.CommentRateLimit <= 0 {
		return errors.New("config: COMMENT_RATE_LIMIT must be positive")
	}
	if c.CommentRateWindow <= 0 {
		return errors.New("config: COMMENT_RATE_WINDOW_SECONDS must be positive")
	}
	return nil
}

func intFromEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
