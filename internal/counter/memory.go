package counter

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore 是进程内的 Store 实现，供本地开发与测试使用。
// 基数估计退化为精确集合计数，其余语义与 Redis 后端一致。
type MemoryStore struct {
	mu       sync.Mutex
	now      func() time.Time
	counters map[string]*memValue
	zsets    map[string]*memZSet
	sketches map[string]*memSketch
	writes   int
}

type memValue struct {
	value     int64
	expiresAt time.Time
}

type memZSet struct {
	scores    map[string]int64
	expiresAt time.Time
}

type memSketch struct {
	members   map[string]struct{}
	expiresAt time.Time
}

// NewMemoryStore 创建内存计数后端。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      time.Now,
		counters: make(map[string]*memValue),
		zsets:    make(map[string]*memZSet),
		sketches: make(map[string]*memSketch),
	}
}

// WithNow 允许测试注入时钟。
func (s *MemoryStore) WithNow(now func() time.Time) *MemoryStore {
	if now != nil {
		s.now = now
	}
	return s
}

// WriteCount 返回已应用的写操作数，测试用它断言零写入路径。
func (s *MemoryStore) WriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func expired(at, now time.Time) bool {
	return !at.IsZero() && !at.After(now)
}

type memOp func(s *MemoryStore, now time.Time)

type memBatch struct {
	store *MemoryStore
	ops   []memOp
}

// Batch 返回一个新的写批次，Flush 在单个锁区间内按入队顺序应用。
func (s *MemoryStore) Batch() Batch {
	return &memBatch{store: s}
}

func (b *memBatch) Incr(key string, ttl time.Duration) {
	b.IncrBy(key, 1, ttl)
}

func (b *memBatch) IncrBy(key string, delta int64, ttl time.Duration) {
	b.ops = append(b.ops, func(s *MemoryStore, now time.Time) {
		entry := s.counters[key]
		if entry == nil || expired(entry.expiresAt, now) {
			entry = &memValue{}
			s.counters[key] = entry
		}
		entry.value += delta
		entry.expiresAt = expiryFor(now, ttl)
		s.writes++
	})
}

func (b *memBatch) ZIncr(key, member string, ttl time.Duration) {
	b.ops = append(b.ops, func(s *MemoryStore, now time.Time) {
		set := s.zsets[key]
		if set == nil || expired(set.expiresAt, now) {
			set = &memZSet{scores: make(map[string]int64)}
			s.zsets[key] = set
		}
		set.scores[member]++
		set.expiresAt = expiryFor(now, ttl)
		s.writes++
	})
}

func (b *memBatch) PFAdd(key, element string, ttl time.Duration) {
	b.ops = append(b.ops, func(s *MemoryStore, now time.Time) {
		sketch := s.sketches[key]
		if sketch == nil || expired(sketch.expiresAt, now) {
			sketch = &memSketch{members: make(map[string]struct{})}
			s.sketches[key] = sketch
		}
		sketch.members[element] = struct{}{}
		sketch.expiresAt = expiryFor(now, ttl)
		s.writes++
	})
}

func (b *memBatch) Flush(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	now := b.store.now()
	for _, op := range b.ops {
		op(b.store, now)
	}
	return nil
}

func expiryFor(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

// IncrWithWindow 实现固定窗口计数，窗口到期后桶归零重建。
func (s *MemoryStore) IncrWithWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry := s.counters[key]
	if entry == nil || expired(entry.expiresAt, now) {
		entry = &memValue{expiresAt: now.Add(window)}
		s.counters[key] = entry
	}
	entry.value++
	s.writes++
	return entry.value, nil
}

// Count 读取计数器，不存在或已过期视为 0。
func (s *MemoryStore) Count(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.counters[key]
	if entry == nil || expired(entry.expiresAt, s.now()) {
		return 0, nil
	}
	return entry.value, nil
}

// Estimate 返回集合的精确基数，作为草图估计的内存替身。
func (s *MemoryStore) Estimate(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sketch := s.sketches[key]
	if sketch == nil || expired(sketch.expiresAt, s.now()) {
		return 0, nil
	}
	return int64(len(sketch.members)), nil
}

// TopN 按分数倒序返回前 n 个成员，同分时按成员名稳定排序。
func (s *MemoryStore) TopN(ctx context.Context, key string, n int64) ([]Ranked, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.zsets[key]
	if set == nil || expired(set.expiresAt, s.now()) || n <= 0 {
		return nil, nil
	}

	ranked := make([]Ranked, 0, len(set.scores))
	for member, score := range set.scores {
		ranked = append(ranked, Ranked{Member: member, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Member < ranked[j].Member
	})
	if int64(len(ranked)) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}
