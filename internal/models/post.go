package models

import "time"

// Post 社区帖子
type Post struct {
	ID        uint      `gorm:"primarykey" json:"id"`                         // 主键
	UserID    uint      `gorm:"not null;index" json:"user_id"`                // 作者
	Title     string    `gorm:"type:varchar(20);not null" json:"title"`       // 标题
	Content   string    `gorm:"type:text;not null" json:"content"`            // 正文
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"` // 是否可见
	CreatedAt time.Time `gorm:"index" json:"timestamp"`                       // 发布时间
	UpdatedAt time.Time `json:"updated_at"`                                   // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// PostImage 帖子图片，序号 1 为封面
type PostImage struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                           // 主键
	PostID      uint      `gorm:"not null;index;uniqueIndex:idx_post_image_order" json:"post_id"` // 所属帖子
	OrderNumber int       `gorm:"not null;uniqueIndex:idx_post_image_order" json:"order_number"`  // 图片序号
	Image       string    `gorm:"type:varchar(500);not null" json:"image"`                        // 图片地址
	CreatedAt   time.Time `json:"created_at"`                                                     // 创建时间
}

// TableName 指定表名
func (PostImage) TableName() string {
	return "post_images"
}

// PostComment 帖子评论
type PostComment struct {
	ID        uint      `gorm:"primarykey" json:"id"`          // 主键
	PostID    uint      `gorm:"not null;index" json:"post_id"` // 所属帖子
	UserID    uint      `gorm:"not null;index" json:"user_id"` // 评论用户
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"` // 评论时间
}

// TableName 指定表名
func (PostComment) TableName() string {
	return "post_comments"
}

// PostLike 帖子点赞，同一用户对同一帖子只能点赞一次
type PostLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                         // 主键
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_like_pair;index" json:"post_id"` // 帖子
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_like_pair;index" json:"user_id"` // 点赞用户
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                      // 点赞时间
}

// TableName 指定表名
func (PostLike) TableName() string {
	return "post_likes"
}
