package models

import "time"

// Address 收货地址表
type Address struct {
	ID          uint      `gorm:"primarykey" json:"id"`                              // 主键
	UserID      uint      `gorm:"not null;index" json:"user_id"`                     // 所属用户
	AddressInfo string    `gorm:"type:varchar(50);not null" json:"address"`          // 详细地址
	Phone       string    `gorm:"type:varchar(20);not null;default:''" json:"phone"` // 联系电话
	IsDefault   bool      `gorm:"not null;default:false;index" json:"is_default"`    // 是否默认地址
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                        // 更新时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
