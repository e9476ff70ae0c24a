package models

import "time"

// Order 订单表，一单对应一个商品规格
type Order struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                                       // 主键
	UserID      uint       `gorm:"not null;index;uniqueIndex:idx_order_user_variant_time" json:"user_id"`      // 下单用户
	VariantID   uint       `gorm:"not null;index;uniqueIndex:idx_order_user_variant_time" json:"produce_id"`   // 商品规格
	AddressID   uint       `gorm:"not null;index" json:"address_id"`                                           // 收货地址
	Quantity    int        `gorm:"not null;default:1" json:"quantity"`                                         // 数量
	Status      string     `gorm:"type:varchar(32);not null;index" json:"status"`                              // 订单状态
	PaymentTime time.Time  `gorm:"not null;index;uniqueIndex:idx_order_user_variant_time" json:"payment_time"` // 付款时间
	ShippedAt   *time.Time `gorm:"index" json:"shipped_at"`                                                    // 发货时间
	ReceivedAt  *time.Time `json:"received_at"`                                                                // 收货时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                                                    // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                                                                 // 更新时间

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"-"`
	Address *Address        `gorm:"foreignKey:AddressID" json:"-"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// ProductComment 商品评价表，与订单一一对应
type ProductComment struct {
	OrderID        uint      `gorm:"primaryKey;autoIncrement:false" json:"order_id"` // 订单ID（主键）
	ProductID      uint      `gorm:"not null;index" json:"product_id"`               // 商品ID
	UserID         uint      `gorm:"not null;index" json:"user_id"`                  // 评价用户
	Content        string    `gorm:"type:text" json:"content"`                       // 评价内容
	Star           float64   `gorm:"not null" json:"star"`                           // 评分（1-5，步长 0.5）
	CommentLikeNum int       `gorm:"not null;default:0" json:"comment_like_num"`     // 点赞数
	CommentTime    time.Time `gorm:"index" json:"comment_time"`                      // 评价时间
}

// TableName 指定表名
func (ProductComment) TableName() string {
	return "product_comments"
}
