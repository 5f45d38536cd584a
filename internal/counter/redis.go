package counter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore 基于 Redis 实现 Store，一次 Flush 对应一次流水线往返。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 计数后端并验证连通性。
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

type redisOp func(ctx context.Context, pipe redis.Pipeliner)

type redisBatch struct {
	client *redis.Client
	ops    []redisOp
}

// Batch 返回一个新的流水线批次。
func (s *RedisStore) Batch() Batch {
	return &redisBatch{client: s.client}
}

// expire 刷新键的过期时间。ttl<=0 表示累计键，绝不能下发 EXPIRE：
// Redis 对 EXPIRE key 0 的处理是直接删除键。
func expire(ctx context.Context, pipe redis.Pipeliner, key string, ttl time.Duration) {
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
}

func (b *redisBatch) Incr(key string, ttl time.Duration) {
	b.ops = append(b.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.Incr(ctx, key)
		expire(ctx, pipe, key, ttl)
	})
}

func (b *redisBatch) IncrBy(key string, delta int64, ttl time.Duration) {
	b.ops = append(b.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.IncrBy(ctx, key, delta)
		expire(ctx, pipe, key, ttl)
	})
}

func (b *redisBatch) ZIncr(key, member string, ttl time.Duration) {
	b.ops = append(b.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.ZIncrBy(ctx, key, 1, member)
		expire(ctx, pipe, key, ttl)
	})
}

func (b *redisBatch) PFAdd(key, element string, ttl time.Duration) {
	b.ops = append(b.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.PFAdd(ctx, key, element)
		expire(ctx, pipe, key, ttl)
	})
}

// Flush 把批次内的全部命令以单次流水线提交。TTL 每次写入都会重设，
// 这样即使之前的写入半途失败，窗口键也不会变成永不过期。
func (b *redisBatch) Flush(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	_, err := b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range b.ops {
			op(ctx, pipe)
		}
		return nil
	})
	return err
}

// IncrWithWindow 实现固定窗口：自增后若计数为 1 则为窗口设置过期。
func (s *RedisStore) IncrWithWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Count 读取计数器，键不存在视为 0。
func (s *RedisStore) Count(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

// Estimate 通过 PFCOUNT 读取基数估计。
func (s *RedisStore) Estimate(ctx context.Context, key string) (int64, error) {
	return s.client.PFCount(ctx, key).Result()
}

// TopN 按分数倒序返回有序集合的前 n 个成员。
func (s *RedisStore) TopN(ctx context.Context, key string, n int64) ([]Ranked, error) {
	if n <= 0 {
		return nil, nil
	}
	members, err := s.client.ZRevRangeWithScores(ctx, key, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	ranked := make([]Ranked, 0, len(members))
	for _, m := range members {
		name, ok := m.Member.(string)
		if !ok {
			continue
		}
		ranked = append(ranked, Ranked{Member: name, Score: int64(m.Score)})
	}
	return ranked, nil
}
