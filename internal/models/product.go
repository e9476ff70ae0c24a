package models

import "time"

// BaseProduct 商品（SPU）表
type BaseProduct struct {
	ID           uint      `gorm:"primarykey" json:"id"`                            // 主键
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`          // 商品名
	CategoryName string    `gorm:"type:varchar(10);not null;index" json:"category"` // 所属分类
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`    // 是否上架
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                      // 更新时间

	Category *Category        `gorm:"foreignKey:CategoryName;references:Name" json:"-"` // 分类
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"-"`                    // 规格列表
}

// TableName 指定表名
func (BaseProduct) TableName() string {
	return "base_products"
}

// ProductVariant 商品规格（SKU）表
type ProductVariant struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                                       // 主键
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_variant_name;uniqueIndex:idx_variant_slot" json:"product_id"` // 所属商品
	ChildName string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_variant_name" json:"child_name"`                   // 规格名
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                                         // 价格
	SlotOrder int       `gorm:"not null;uniqueIndex:idx_variant_slot" json:"order"`                                         // 展示序号
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                                                    // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                                 // 更新时间

	Product *BaseProduct `gorm:"foreignKey:ProductID" json:"-"` // 所属商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// ProductImage 商品图片表，序号 1 为封面
type ProductImage struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                                 // 主键
	ProductID   uint      `gorm:"not null;index;uniqueIndex:idx_product_image_order" json:"product_id"` // 所属商品
	OrderNumber int       `gorm:"not null;uniqueIndex:idx_product_image_order" json:"order_number"`     // 图片序号
	Image       string    `gorm:"type:varchar(500);not null" json:"image"`                              // 图片地址
	CreatedAt   time.Time `json:"created_at"`                                                           // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}

// Advertisement 商城广告位
type Advertisement struct {
	ID        uint      `gorm:"primarykey" json:"id"`                    // 主键
	ProductID uint      `gorm:"not null;index" json:"product_id"`        // 跳转商品
	Image     string    `gorm:"type:varchar(500);not null" json:"image"` // 广告图
	CreatedAt time.Time `gorm:"index" json:"created_at"`                 // 创建时间
}

// TableName 指定表名
func (Advertisement) TableName() string {
	return "advertisements"
}
