package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/uutiset/internal/db"
	"gorm.io/gorm"
)

// 评论字段的长度边界（按字符数，闭区间）。
const (
	MinDisplayNameLen = 2
	MaxDisplayNameLen = 40
	MinContentLen     = 2
	MaxContentLen     = 2000
)

// RateScopeComment 是评论端点的限流类别。
const RateScopeComment = "comment"

var (
	// ErrInvalidComment 表示提交内容未通过形状校验。
	ErrInvalidComment = errors.New("invalid comment")
	// ErrPostNotFound 表示目标文章不存在或不可公开访问。
	// 对外措辞刻意模糊，避免泄露未发布内容的存在。
	ErrPostNotFound = errors.New("post not found")
	// ErrBlocked 表示调用方命中封禁规则。
	ErrBlocked = errors.New("caller blocked")
	// ErrRateLimited 表示调用方超出提交频率限制。
	ErrRateLimited = errors.New("rate limited")
)

var (
	contentSanitizer = bluemonday.UGCPolicy()
	nameSanitizer    = bluemonday.StrictPolicy()
)

// CommentInput 是一次评论提交的入参。ClientIP 只用于当次哈希，
// 不会以原值形式离开本次调用。
type CommentInput struct {
	PostID      uint
	DisplayName string
	Content     string
	Email       string
	Honeypot    string
	ClientIP    string
	RateKey     string
}

// CommentService 实现评论入库管线：形状校验、蜜罐、引用校验、
// 封禁判定、限流、净化、落库。
type CommentService struct {
	db          *gorm.DB
	blocks      *BlockRuleService
	limiter     *RateLimiter
	rateWindow  time.Duration
	rateCeiling int64
}

// NewCommentService 创建评论服务。
func NewCommentService(gdb *gorm.DB, blocks *BlockRuleService, limiter *RateLimiter, window time.Duration, ceiling int64) *CommentService {
	return &CommentService{
		db:          gdb,
		blocks:      blocks,
		limiter:     limiter,
		rateWindow:  window,
		rateCeiling: ceiling,
	}
}

// Create 执行完整入库管线。蜜罐命中时返回 (nil, nil)：
// 对调用方表现为成功但不产生任何记录。
func (s *CommentService) Create(ctx context.Context, in CommentInput) (*db.Comment, error) {
	name := strings.TrimSpace(in.DisplayName)
	content := strings.TrimSpace(in.Content)

	if in.PostID == 0 {
		return nil, fmt.Errorf("%w: post id required", ErrInvalidComment)
	}
	if n := utf8.RuneCountInString(name); n < MinDisplayNameLen || n > MaxDisplayNameLen {
		return nil, fmt.Errorf("%w: display name length", ErrInvalidComment)
	}
	if n := utf8.RuneCountInString(content); n < MinContentLen || n > MaxContentLen {
		return nil, fmt.Errorf("%w: content length", ErrInvalidComment)
	}

	// 蜜罐字段非空说明是自动化提交，静默吞掉，不给对方任何信号。
	if strings.TrimSpace(in.Honeypot) != "" {
		return nil, nil
	}

	var post db.Post
	err := s.db.Where("id = ? AND status = ?", in.PostID, db.PostStatusPublished).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	ipHash := HashValue(in.ClientIP)
	emailHash := ""
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		emailHash = HashValue(email)
	}

	blocked, err := s.blocks.IsBlocked(ipHash, emailHash, name)
	if err != nil {
		log.Printf("comments: block check unavailable, allowing: %v", err)
	} else if blocked {
		return nil, ErrBlocked
	}

	if !s.limiter.Allow(ctx, RateScopeComment, in.RateKey, s.rateWindow, s.rateCeiling) {
		return nil, ErrRateLimited
	}

	comment := db.Comment{
		PostID:      in.PostID,
		DisplayName: nameSanitizer.Sanitize(name),
		Content:     contentSanitizer.Sanitize(content),
		IPHash:      ipHash,
		EmailHash:   emailHash,
		Status:      db.CommentStatusApproved,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		// 落库失败是唯一向调用方暴露 500 的路径：评论确实没有被记录。
		return nil, err
	}
	return &comment, nil
}

// ListPublic 返回文章下可公开展示的评论，最新在前。
func (s *CommentService) ListPublic(postID uint, limit int) ([]db.Comment, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var comments []db.Comment
	err := s.db.Where("post_id = ? AND status = ?", postID, db.CommentStatusApproved).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}
