package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uutiset/internal/service"
)

type viewRequest struct {
	PostID   string `json:"postId"`
	Locale   string `json:"locale"`
	Category string `json:"category"`
	SID      string `json:"sid"`
}

type readTimeRequest struct {
	PostID   string `json:"postId"`
	Locale   string `json:"locale"`
	Category string `json:"category"`
	Millis   int64  `json:"ms"`
}

// CollectView handles the pageview beacon. The client contract is
// fire-and-forget: once the body passes validation the response is
// {ok:true} no matter what happens on the counter store side.
func (a *API) CollectView(c *gin.Context) {
	setMutationCacheHeaders(c)

	var req viewRequest
	bindPermissive(c, &req)

	if strings.TrimSpace(req.PostID) == "" {
		respondError(c, http.StatusBadRequest, "postId is required")
		return
	}

	ev := service.ViewEvent{
		PostID:      req.PostID,
		Locale:      req.Locale,
		Category:    req.Category,
		CountryCode: c.GetHeader("CF-IPCountry"),
		Fingerprint: a.callerFingerprint(c, req.SID),
	}
	if err := a.engage.RecordView(c.Request.Context(), ev); err != nil {
		respondError(c, http.StatusBadRequest, "postId is required")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CollectReadTime handles the accumulated read-time ping. Same contract
// as CollectView; the service clamps the reported duration.
func (a *API) CollectReadTime(c *gin.Context) {
	setMutationCacheHeaders(c)

	var req readTimeRequest
	bindPermissive(c, &req)

	if strings.TrimSpace(req.PostID) == "" {
		respondError(c, http.StatusBadRequest, "postId is required")
		return
	}

	ev := service.ReadTimeEvent{
		PostID:        req.PostID,
		Locale:        req.Locale,
		Category:      req.Category,
		ElapsedMillis: req.Millis,
	}
	if err := a.engage.RecordReadTime(c.Request.Context(), ev); err != nil {
		respondError(c, http.StatusBadRequest, "postId is required")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetTrending 返回指定语言趋势榜的前 N 篇文章，供展示层渲染。
func (a *API) GetTrending(c *gin.Context) {
	limit := int64(10)
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	posts, err := a.engage.TopTrending(c.Request.Context(), c.Query("locale"), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "trending unavailable")
		return
	}

	items := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		items = append(items, gin.H{"postId": p.PostID, "score": p.Score})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}

// GetPostStats 返回单篇文章当天的计数快照。独立访客数是估计值。
func (a *API) GetPostStats(c *gin.Context) {
	postID := strings.TrimSpace(c.Param("id"))
	if postID == "" {
		respondError(c, http.StatusBadRequest, "postId is required")
		return
	}

	day := strings.TrimSpace(c.Query("day"))
	if day == "" {
		day = a.engage.Today()
	}

	stats, err := a.engage.PostStatsFor(c.Request.Context(), postID, day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "stats unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":  true,
		"day": stats.Day,
		"stats": gin.H{
			"views":          stats.Views,
			"totalViews":     stats.TotalViews,
			"uniqueVisitors": stats.UniqueVisitors,
			"readMillis":     stats.ReadMillis,
			// UV 来自基数草图，永远是估计值，展示层不得当精确数使用。
			"approximate": true,
		},
	})
}
