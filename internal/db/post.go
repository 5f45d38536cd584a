package db

import "gorm.io/gorm"

// 文章状态。内容的增删改由内容层负责，本服务只做可见性校验。
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post 定义了文章模型，仅保留评论入库前引用校验所需的字段。
type Post struct {
	gorm.Model
	Slug     string `gorm:"size:190;index"`
	Language string `gorm:"size:8;index"`
	Category string `gorm:"size:64;index"`
	Status   string `gorm:"size:16;index"`
}
