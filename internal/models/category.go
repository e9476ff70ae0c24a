package models

import "time"

// Category 分类表，名称即主键
type Category struct {
	Name      string    `gorm:"primaryKey;type:varchar(10)" json:"name"` // 分类名
	CreatedAt time.Time `gorm:"index" json:"created_at"`                 // 创建时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
