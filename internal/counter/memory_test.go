package counter

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreCountersAndTTL(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore().WithNow(func() time.Time { return now })
	ctx := context.Background()

	batch := store.Batch()
	batch.Incr("k", time.Hour)
	batch.IncrBy("k", 4, time.Hour)
	if err := batch.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	if count, _ := store.Count(ctx, "k"); count != 5 {
		t.Fatalf("expected 5, got %d", count)
	}

	now = now.Add(2 * time.Hour)
	if count, _ := store.Count(ctx, "k"); count != 0 {
		t.Fatalf("expected 0 after expiry, got %d", count)
	}
}

func TestMemoryStoreCumulativeKeyNeverExpires(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore().WithNow(func() time.Time { return now })
	ctx := context.Background()

	batch := store.Batch()
	batch.Incr("total", 0)
	if err := batch.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	now = now.Add(365 * 24 * time.Hour)
	if count, _ := store.Count(ctx, "total"); count != 1 {
		t.Fatalf("cumulative key must survive indefinitely, got %d", count)
	}
}

func TestMemoryStoreEmptyBatchWritesNothing(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Batch().Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if store.WriteCount() != 0 {
		t.Fatalf("expected zero writes, got %d", store.WriteCount())
	}
}

func TestMemoryStoreSketchDedupes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	batch := store.Batch()
	batch.PFAdd("uv", "fp-1", time.Hour)
	batch.PFAdd("uv", "fp-1", time.Hour)
	batch.PFAdd("uv", "fp-2", time.Hour)
	if err := batch.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	if estimate, _ := store.Estimate(ctx, "uv"); estimate != 2 {
		t.Fatalf("expected estimate 2, got %d", estimate)
	}
}

func TestMemoryStoreTopN(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	batch := store.Batch()
	for i := 0; i < 3; i++ {
		batch.ZIncr("trending", "post:1", time.Hour)
	}
	batch.ZIncr("trending", "post:2", time.Hour)
	if err := batch.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	ranked, err := store.TopN(ctx, "trending", 1)
	if err != nil {
		t.Fatalf("topn failed: %v", err)
	}
	if len(ranked) != 1 || ranked[0].Member != "post:1" || ranked[0].Score != 3 {
		t.Fatalf("unexpected top entry: %+v", ranked)
	}
}

func TestMemoryStoreTrendingExpiresAsAWhole(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore().WithNow(func() time.Time { return now })
	ctx := context.Background()

	batch := store.Batch()
	batch.ZIncr("trending", "post:1", TrendingTTL)
	if err := batch.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	now = now.Add(TrendingTTL + time.Minute)
	ranked, err := store.TopN(ctx, "trending", 10)
	if err != nil {
		t.Fatalf("topn failed: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected expired trending set, got %+v", ranked)
	}
}

func TestMemoryStoreIncrWithWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore().WithNow(func() time.Time { return now })
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, err := store.IncrWithWindow(ctx, "bucket", 10*time.Minute)
		if err != nil {
			t.Fatalf("incr failed: %v", err)
		}
		if count != i {
			t.Fatalf("expected count %d, got %d", i, count)
		}
	}

	// 窗口到期后桶归零重建。
	now = now.Add(10*time.Minute + time.Second)
	count, err := store.IncrWithWindow(ctx, "bucket", 10*time.Minute)
	if err != nil {
		t.Fatalf("incr failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected fresh window count 1, got %d", count)
	}
}
