package db

import "time"

// 封禁规则的匹配维度。
const (
	BlockKindIP    = "ip"
	BlockKindEmail = "email"
	BlockKindNick  = "nick"
)

// BlockRule 记录一条封禁规则。ip/email 按不可逆哈希匹配，
// nick 按大小写折叠后的昵称原值匹配。
type BlockRule struct {
	ID        uint   `gorm:"primaryKey"`
	Kind      string `gorm:"size:8;index"`
	ValueHash string `gorm:"size:64;index"`
	Value     string `gorm:"size:64;index"`
	Active    bool   `gorm:"default:true;index"`
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定自定义表名。
func (BlockRule) TableName() string {
	return "block_rules"
}
