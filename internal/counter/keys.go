package counter

import (
	"fmt"
	"time"
)

// TrendingTTL 为趋势榜的滚动过期时间：每次写入都会刷新，
// 最后一次浏览 24 小时后整个榜单过期，以此代替显式的衰减函数。
const TrendingTTL = 24 * time.Hour

const keyPrefix = "engage"

// DayBucket 返回 UTC 日历天标识（YYYYMMDD），用作计数键的时间窗口。
func DayBucket(t time.Time) string {
	return t.UTC().Format("20060102")
}

// Keys 根据保留窗口生成计数存储的键名。
// 键空间由展示层按名字消费，scope/metric/window 三元组一经发布不可再变。
type Keys struct {
	Retention time.Duration
}

// NewKeys 按天数构造键名方案。
func NewKeys(retentionDays int) Keys {
	if retentionDays <= 0 {
		retentionDays = 40
	}
	return Keys{Retention: time.Duration(retentionDays) * 24 * time.Hour}
}

func (Keys) SiteViews(day string) string {
	return fmt.Sprintf("%s:site:views:%s", keyPrefix, day)
}

func (Keys) SiteReadMillis(day string) string {
	return fmt.Sprintf("%s:site:readms:%s", keyPrefix, day)
}

func (Keys) SiteUniques(day string) string {
	return fmt.Sprintf("%s:site:uv:%s", keyPrefix, day)
}

func (Keys) PostViews(postID, day string) string {
	return fmt.Sprintf("%s:post:%s:views:%s", keyPrefix, postID, day)
}

// PostViewsTotal 是少数不带时间窗口的累计键之一。
func (Keys) PostViewsTotal(postID string) string {
	return fmt.Sprintf("%s:post:%s:views:total", keyPrefix, postID)
}

func (Keys) PostReadMillis(postID, day string) string {
	return fmt.Sprintf("%s:post:%s:readms:%s", keyPrefix, postID, day)
}

func (Keys) PostUniques(postID, day string) string {
	return fmt.Sprintf("%s:post:%s:uv:%s", keyPrefix, postID, day)
}

func (Keys) CategoryViews(locale, slug, day string) string {
	return fmt.Sprintf("%s:category:%s:%s:views:%s", keyPrefix, locale, slug, day)
}

func (Keys) CategoryReadMillis(locale, slug, day string) string {
	return fmt.Sprintf("%s:category:%s:%s:readms:%s", keyPrefix, locale, slug, day)
}

// CountryViews 是按地区聚合的有序集合键，成员为国家代码。
func (Keys) CountryViews(locale, day string) string {
	return fmt.Sprintf("%s:country:%s:views:%s", keyPrefix, locale, day)
}

// Trending 是每个语言一份的滚动趋势榜，成员为 post:{id}。
func (Keys) Trending(locale string) string {
	return fmt.Sprintf("%s:trending:%s", keyPrefix, locale)
}

// TrendingMember 返回趋势榜中文章的成员名。
func TrendingMember(postID string) string {
	return "post:" + postID
}

// RateLimit 返回限流桶的键名，按端点类别与调用方指纹区分。
func (Keys) RateLimit(scope, key string) string {
	return fmt.Sprintf("%s:rl:%s:%s", keyPrefix, scope, key)
}
