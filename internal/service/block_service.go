package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/uutiset/internal/db"
	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

// BlockRuleService 负责评论入库前的封禁规则判定。
type BlockRuleService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBlockRuleService 创建封禁规则服务。
func NewBlockRuleService(gdb *gorm.DB) *BlockRuleService {
	return &BlockRuleService{db: gdb, now: time.Now}
}

// WithNow 允许测试注入时钟。
func (s *BlockRuleService) WithNow(now func() time.Time) *BlockRuleService {
	if now != nil {
		s.now = now
	}
	return s
}

// HashValue 对 ip/email 原值做 BLAKE2b-256 不可逆哈希，返回十六进制。
func HashValue(value string) string {
	if value == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(value))
	return fmt.Sprintf("%x", sum)
}

// NormalizeNickname 把昵称折叠为小写并去掉首尾空白，供规则匹配使用。
func NormalizeNickname(nick string) string {
	return strings.ToLower(strings.TrimSpace(nick))
}

// IsBlocked 判断调用方是否命中任一生效中的封禁规则。
// 规则生效的条件：active 为真，且未设置过期时间或过期时间在未来。
// 没有任何规则命中（包括规则表为空）时返回 false。
func (s *BlockRuleService) IsBlocked(ipHash, emailHash, nickname string) (bool, error) {
	nick := NormalizeNickname(nickname)
	if ipHash == "" && emailHash == "" && nick == "" {
		return false, nil
	}

	hashes := make([]string, 0, 2)
	if ipHash != "" {
		hashes = append(hashes, ipHash)
	}
	if emailHash != "" {
		hashes = append(hashes, emailHash)
	}

	query := s.db.Model(&db.BlockRule{}).
		Where("active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", s.now())

	switch {
	case len(hashes) > 0 && nick != "":
		query = query.Where(
			"(kind IN ? AND value_hash IN ?) OR (kind = ? AND value = ?)",
			[]string{db.BlockKindIP, db.BlockKindEmail}, hashes,
			db.BlockKindNick, nick,
		)
	case len(hashes) > 0:
		query = query.Where("kind IN ? AND value_hash IN ?",
			[]string{db.BlockKindIP, db.BlockKindEmail}, hashes)
	default:
		query = query.Where("kind = ? AND value = ?", db.BlockKindNick, nick)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
