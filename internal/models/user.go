package models

import "time"

// User 用户表
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                   // 主键
	Name         string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`      // 用户名（唯一）
	PasswordHash string     `gorm:"not null" json:"-"`                                      // 密码哈希（不返回给前端）
	Email        string     `gorm:"type:varchar(254);default:''" json:"email"`              // 邮箱
	Phone        string     `gorm:"type:varchar(20);default:''" json:"phone"`               // 手机号
	Sex          string     `gorm:"type:varchar(1);default:'m'" json:"sex"`                 // 性别（m/f）
	Icon         string     `gorm:"type:varchar(500);default:''" json:"icon"`               // 头像地址
	LoginStatus  string     `gorm:"type:varchar(16);default:'offline'" json:"login_status"` // 登录状态
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"`                            // Token 版本（用于全量失效）
	LastLoginAt  *time.Time `json:"last_login_at"`                                          // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                             // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Fan 关注关系表，FanID 关注了 UserID
type Fan struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                   // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_fan_pair;index" json:"user_id"` // 被关注者
	FanID     uint      `gorm:"not null;uniqueIndex:idx_fan_pair;index" json:"fan_id"`  // 关注者
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                // 关注时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Fan  *User `gorm:"foreignKey:FanID" json:"fan,omitempty"`
}

// TableName 指定表名
func (Fan) TableName() string {
	return "fans"
}
