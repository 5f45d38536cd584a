package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uutiset/internal/db"
	"github.com/uutiset/internal/service"
)

type commentRequest struct {
	PostID      string `json:"postId"`
	DisplayName string `json:"displayName"`
	Content     string `json:"content"`
	Email       string `json:"email"`
	SID         string `json:"sid"`
	Honeypot    string `json:"honeypot"`
}

type commentItem struct {
	ID          uint      `json:"id"`
	DisplayName string    `json:"displayName"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// resolveCommentPostID 解析目标文章：路径参数优先，缺失时退回请求体。
func resolveCommentPostID(c *gin.Context, fromBody string) (uint, error) {
	if c.Param("id") != "" {
		return parseUintParam(c, "id")
	}
	id, err := strconv.ParseUint(strings.TrimSpace(fromBody), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid postId")
	}
	return uint(id), nil
}

// publicComment 只暴露公开安全字段，审核状态与哈希永不外泄。
func publicComment(c *db.Comment) commentItem {
	return commentItem{
		ID:          c.ID,
		DisplayName: c.DisplayName,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
	}
}

// CreateComment handles public comment submission. The target post comes
// from the URL on the nested route and from the body postId field on the
// flat route, matching the documented wire shape.
func (a *API) CreateComment(c *gin.Context) {
	setMutationCacheHeaders(c)

	var req commentRequest
	bindPermissive(c, &req)

	postID, err := resolveCommentPostID(c, req.PostID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	sid := ensureSessionToken(c, req.SID)
	input := service.CommentInput{
		PostID:      postID,
		DisplayName: req.DisplayName,
		Content:     req.Content,
		Email:       req.Email,
		Honeypot:    req.Honeypot,
		ClientIP:    c.ClientIP(),
		RateKey:     a.callerFingerprint(c, sid),
	}

	comment, err := a.comments.Create(c.Request.Context(), input)
	switch {
	case errors.Is(err, service.ErrInvalidComment):
		respondError(c, http.StatusBadRequest, "invalid comment")
		return
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusBadRequest, "invalid post")
		return
	case errors.Is(err, service.ErrBlocked):
		respondError(c, http.StatusForbidden, "submission rejected")
		return
	case errors.Is(err, service.ErrRateLimited):
		respondError(c, http.StatusTooManyRequests, "too many comments")
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "comment not saved")
		return
	}

	if comment == nil {
		// 蜜罐命中：对外与成功无法区分。
		c.JSON(http.StatusOK, gin.H{"ok": true, "ignored": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "item": publicComment(comment)})
}

// ListComments 返回文章下公开可见的评论。
func (a *API) ListComments(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	comments, err := a.comments.ListPublic(postID, 100)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "comments unavailable")
		return
	}

	items := make([]commentItem, 0, len(comments))
	for i := range comments {
		items = append(items, publicComment(&comments[i]))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}
