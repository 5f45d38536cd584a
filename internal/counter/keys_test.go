package counter

import (
	"testing"
	"time"
)

func TestDayBucketUsesUTC(t *testing.T) {
	helsinki := time.FixedZone("EET", 2*60*60)
	// 赫尔辛基时间 1:30 仍属于 UTC 前一天。
	local := time.Date(2024, 5, 2, 1, 30, 0, 0, helsinki)

	if got := DayBucket(local); got != "20240501" {
		t.Fatalf("expected 20240501, got %s", got)
	}
	if got := DayBucket(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)); got != "20240502" {
		t.Fatalf("expected 20240502, got %s", got)
	}
}

func TestKeySchemeInjective(t *testing.T) {
	keys := NewKeys(40)
	day := "20240501"

	all := []string{
		keys.SiteViews(day),
		keys.SiteReadMillis(day),
		keys.SiteUniques(day),
		keys.PostViews("42", day),
		keys.PostViewsTotal("42"),
		keys.PostReadMillis("42", day),
		keys.PostUniques("42", day),
		keys.CategoryViews("fi", "talous", day),
		keys.CategoryReadMillis("fi", "talous", day),
		keys.CountryViews("fi", day),
		keys.Trending("fi"),
		keys.Trending("sv"),
		keys.RateLimit("comment", "abc"),
	}

	seen := make(map[string]bool, len(all))
	for _, key := range all {
		if seen[key] {
			t.Fatalf("key scheme collision: %s", key)
		}
		seen[key] = true
	}
}

func TestNewKeysDefaultsRetention(t *testing.T) {
	keys := NewKeys(0)
	if keys.Retention != 40*24*time.Hour {
		t.Fatalf("expected 40 day default retention, got %v", keys.Retention)
	}
}

func TestTrendingMember(t *testing.T) {
	if got := TrendingMember("17"); got != "post:17" {
		t.Fatalf("unexpected trending member: %s", got)
	}
}
