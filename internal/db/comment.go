package db

import "time"

// 评论审核状态。公开提交默认直接通过，后台工具可以事后翻转。
const (
	CommentStatusApproved = "approved"
	CommentStatusPending  = "pending"
	CommentStatusHidden   = "hidden"
)

// Comment 记录一条读者评论。IPHash/EmailHash 只保存不可逆哈希，
// Suspect 标记由后台标注，两者都不会出现在公开序列化结果中。
type Comment struct {
	ID          uint   `gorm:"primaryKey"`
	PostID      uint   `gorm:"index"`
	DisplayName string `gorm:"size:40"`
	Content     string `gorm:"size:2000"`
	IPHash      string `gorm:"size:64;index"`
	EmailHash   string `gorm:"size:64"`
	Status      string `gorm:"size:16;index;default:approved"`
	Suspect     bool   `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定自定义表名，避免自动复数化导致的歧义。
func (Comment) TableName() string {
	return "comments"
}
