package models

import "time"

// CartItem 购物车项
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                               // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_variant" json:"user_id"`          // 用户ID
	VariantID uint      `gorm:"not null;uniqueIndex:idx_cart_user_variant;index" json:"produce_id"` // 商品规格ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                           // 数量
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                            // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                            // 更新时间

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"-"` // 关联规格
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// Favorite 商品收藏
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                   // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"user_id"`          // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_favorite_user_product;index" json:"product_id"` // 商品ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                                // 收藏时间
}

// TableName 指定表名
func (Favorite) TableName() string {
	return "favorites"
}
