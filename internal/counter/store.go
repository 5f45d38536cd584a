// Package counter 定义实时参与度计数的存储抽象：
// 原子自增、有序集合加分、基数草图与固定窗口限流桶。
// 所有写入只做增量且同时刷新 TTL，过期是唯一的删除路径。
package counter

import (
	"context"
	"time"
)

// Ranked 是排行查询返回的一项。
type Ranked struct {
	Member string
	Score  int64
}

// Batch 收集一次逻辑事件产生的全部写操作，Flush 时以单次往返提交。
// 无法流水线化的后端必须按入队顺序执行（计数先于排行先于草图），
// 让部分失败偏向少计而不是破坏排行。
// ttl<=0 表示不设过期：累计键（如文章总浏览量）永不因 TTL 消失，
// 实现不得把它理解为"立即过期"。
type Batch interface {
	Incr(key string, ttl time.Duration)
	IncrBy(key string, delta int64, ttl time.Duration)
	ZIncr(key, member string, ttl time.Duration)
	PFAdd(key, element string, ttl time.Duration)
	Flush(ctx context.Context) error
}

// Store 是计数后端的统一入口。实现必须保证单个操作的原子性；
// 跨键不提供事务，调用方把所有读数视为近似信号。
type Store interface {
	// Batch 开启一个新的写批次。
	Batch() Batch
	// IncrWithWindow 自增固定窗口计数桶；首个请求建窗并设置过期。
	IncrWithWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	// Count 读取普通计数器，不存在时返回 0。
	Count(ctx context.Context, key string) (int64, error)
	// Estimate 读取基数草图的估计值，结果永远是近似的。
	Estimate(ctx context.Context, key string) (int64, error)
	// TopN 返回有序集合分数最高的 n 个成员。
	TopN(ctx context.Context, key string, n int64) ([]Ranked, error)
}
