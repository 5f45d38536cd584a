package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/uutiset/internal/counter"
	"github.com/uutiset/internal/locale"
)

// MaxReadMillisPerPing 限制单次心跳可上报的阅读时长（5 分钟），
// 防止恶意或异常客户端一次写入巨量数值。
const MaxReadMillisPerPing int64 = 300000

// ErrMissingPostID 表示事件缺少文章标识。
var ErrMissingPostID = errors.New("post id required")

// ViewEvent 描述一次浏览事件，仅在请求内存活，从不落盘。
type ViewEvent struct {
	PostID      string
	Locale      string
	Category    string
	CountryCode string
	Fingerprint string
}

// ReadTimeEvent 描述一次阅读时长心跳。
type ReadTimeEvent struct {
	PostID        string
	Locale        string
	Category      string
	ElapsedMillis int64
}

// EngagementService 把浏览与阅读事件转换为计数存储的批量写入。
// 写入失败只记录日志不上抛：采集端宁可少计，也不能拖垮页面渲染。
type EngagementService struct {
	store counter.Store
	keys  counter.Keys
	now   func() time.Time
}

// NewEngagementService 创建参与度采集服务。
func NewEngagementService(store counter.Store, retentionDays int) *EngagementService {
	return &EngagementService{
		store: store,
		keys:  counter.NewKeys(retentionDays),
		now:   time.Now,
	}
}

// WithNow 允许测试注入时钟。
func (s *EngagementService) WithNow(now func() time.Time) *EngagementService {
	if now != nil {
		s.now = now
	}
	return s
}

// RecordView 记录一次浏览。一条事件的全部键更新打进同一个批次，
// 以单次往返提交；入队顺序固定为计数、排行、草图。
func (s *EngagementService) RecordView(ctx context.Context, ev ViewEvent) error {
	postID := strings.TrimSpace(ev.PostID)
	if postID == "" {
		return ErrMissingPostID
	}

	loc := locale.Normalize(ev.Locale)
	day := counter.DayBucket(s.now())
	ttl := s.keys.Retention

	batch := s.store.Batch()
	batch.Incr(s.keys.SiteViews(day), ttl)
	batch.Incr(s.keys.PostViews(postID, day), ttl)
	batch.Incr(s.keys.PostViewsTotal(postID), 0)

	category := strings.TrimSpace(ev.Category)
	if category != "" {
		batch.Incr(s.keys.CategoryViews(loc, category, day), ttl)
	}

	batch.ZIncr(s.keys.Trending(loc), counter.TrendingMember(postID), counter.TrendingTTL)

	if country := locale.NormalizeCountry(ev.CountryCode); country != "" {
		batch.ZIncr(s.keys.CountryViews(loc, day), country, ttl)
	}

	if ev.Fingerprint != "" {
		batch.PFAdd(s.keys.SiteUniques(day), ev.Fingerprint, ttl)
		batch.PFAdd(s.keys.PostUniques(postID, day), ev.Fingerprint, ttl)
	}

	if err := batch.Flush(ctx); err != nil {
		log.Printf("engagement: view batch dropped: %v", err)
	}
	return nil
}

// RecordReadTime 记录一次阅读时长心跳。时长被钳制到 [0, 5min]，
// 钳制后为零的心跳不产生任何存储写入。
func (s *EngagementService) RecordReadTime(ctx context.Context, ev ReadTimeEvent) error {
	postID := strings.TrimSpace(ev.PostID)
	if postID == "" {
		return ErrMissingPostID
	}

	millis := ev.ElapsedMillis
	if millis > MaxReadMillisPerPing {
		millis = MaxReadMillisPerPing
	}
	if millis <= 0 {
		return nil
	}

	loc := locale.Normalize(ev.Locale)
	day := counter.DayBucket(s.now())
	ttl := s.keys.Retention

	batch := s.store.Batch()
	batch.IncrBy(s.keys.SiteReadMillis(day), millis, ttl)
	batch.IncrBy(s.keys.PostReadMillis(postID, day), millis, ttl)
	if category := strings.TrimSpace(ev.Category); category != "" {
		batch.IncrBy(s.keys.CategoryReadMillis(loc, category, day), millis, ttl)
	}

	if err := batch.Flush(ctx); err != nil {
		log.Printf("engagement: read-time batch dropped: %v", err)
	}
	return nil
}

// PostStats 汇总单篇文章在指定日期的浏览数据。独立访客数是估计值。
type PostStats struct {
	PostID         string
	Day            string
	Views          int64
	TotalViews     int64
	UniqueVisitors int64
	ReadMillis     int64
}

// PostStatsFor 读取文章在某天的计数，供展示层消费。
func (s *EngagementService) PostStatsFor(ctx context.Context, postID string, day string) (PostStats, error) {
	stats := PostStats{PostID: postID, Day: day}

	var err error
	if stats.Views, err = s.store.Count(ctx, s.keys.PostViews(postID, day)); err != nil {
		return stats, err
	}
	if stats.TotalViews, err = s.store.Count(ctx, s.keys.PostViewsTotal(postID)); err != nil {
		return stats, err
	}
	if stats.UniqueVisitors, err = s.store.Estimate(ctx, s.keys.PostUniques(postID, day)); err != nil {
		return stats, err
	}
	if stats.ReadMillis, err = s.store.Count(ctx, s.keys.PostReadMillis(postID, day)); err != nil {
		return stats, err
	}
	return stats, nil
}

// TrendingPost 是趋势榜上的一项。
type TrendingPost struct {
	PostID string
	Score  int64
}

// TopTrending 返回指定语言趋势榜的前 n 篇文章。
func (s *EngagementService) TopTrending(ctx context.Context, loc string, n int64) ([]TrendingPost, error) {
	ranked, err := s.store.TopN(ctx, s.keys.Trending(locale.Normalize(loc)), n)
	if err != nil {
		return nil, err
	}
	posts := make([]TrendingPost, 0, len(ranked))
	for _, r := range ranked {
		posts = append(posts, TrendingPost{
			PostID: strings.TrimPrefix(r.Member, "post:"),
			Score:  r.Score,
		})
	}
	return posts, nil
}

// Today 返回当前 UTC 日期桶。
func (s *EngagementService) Today() string {
	return counter.DayBucket(s.now())
}
