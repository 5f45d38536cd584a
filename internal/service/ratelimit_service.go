package service

import (
	"context"
	"log"
	"time"

	"github.com/uutiset/internal/counter"
)

// RateLimiter 是基于计数存储的固定窗口限流器。
// 存储不可用时放行（fail-open）：评论端点优先可用性而非严格限流。
type RateLimiter struct {
	store counter.Store
	keys  counter.Keys
}

// NewRateLimiter 创建固定窗口限流器。
func NewRateLimiter(store counter.Store) *RateLimiter {
	return &RateLimiter{store: store, keys: counter.NewKeys(0)}
}

// Allow 自增 (scope, key) 对应的窗口桶并判断是否超限。
// 窗口内第一个请求建窗，计数超过 ceiling 后窗口剩余时间内一律拒绝。
func (l *RateLimiter) Allow(ctx context.Context, scope, key string, window time.Duration, ceiling int64) bool {
	if key == "" {
		return true
	}
	count, err := l.store.IncrWithWindow(ctx, l.keys.RateLimit(scope, key), window)
	if err != nil {
		log.Printf("ratelimit: store unavailable, allowing %s/%s: %v", scope, key, err)
		return true
	}
	return count <= ceiling
}
