package repository

import (
	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	Create(product *models.BaseProduct) error
	Update(product *models.BaseProduct) error
	GetByID(id uint) (*models.BaseProduct, error)
	List(filter ProductListFilter) ([]models.BaseProduct, int64, error)
	ListByIDs(ids []uint) ([]models.BaseProduct, error)
	MinPrices(productIDs []uint) (map[uint]models.Money, error)
	SalesCounts(productIDs []uint) (map[uint]int64, error)
	CommentCounts(productIDs []uint) (map[uint]int64, error)
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.BaseProduct) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.BaseProduct) error {
	return r.db.Save(product).Error
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.BaseProduct, error) {
	return firstOrNil[models.BaseProduct](r.db, id)
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.BaseProduct, int64, error) {
	query := r.db.Model(&models.BaseProduct{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryName != "" {
		query = query.Where("category_name = ?", filter.CategoryName)
	}

	return findPage[models.BaseProduct](query, filter.Page, filter.PageSize, "id DESC")
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.BaseProduct, error) {
	if len(ids) == 0 {
		return []models.BaseProduct{}, nil
	}
	var products []models.BaseProduct
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

type productMinPrice struct {
	ProductID uint
	Price     models.Money
}

// MinPrices 批量计算商品最低规格价，无规格的商品不出现在结果中
func (r *GormProductRepository) MinPrices(productIDs []uint) (map[uint]models.Money, error) {
	result := make(map[uint]models.Money, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	var rows []productMinPrice
	err := r.db.Model(&models.ProductVariant{}).
		Select("product_id, MIN(price) AS price").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ProductID] = row.Price
	}
	return result, nil
}

// SalesCounts 批量统计商品销量（售后订单不计入）
func (r *GormProductRepository) SalesCounts(productIDs []uint) (map[uint]int64, error) {
	if len(productIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []CountByID
	err := r.db.Model(&models.Order{}).
		Select("product_variants.product_id AS id, COALESCE(SUM(orders.quantity), 0) AS count").
		Joins("JOIN product_variants ON product_variants.id = orders.variant_id").
		Where("product_variants.product_id IN ?", productIDs).
		Where("orders.status <> ?", constants.OrderStatusAfterSale).
		Group("product_variants.product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countsToMap(rows), nil
}

// CommentCounts 批量统计商品评价数
func (r *GormProductRepository) CommentCounts(productIDs []uint) (map[uint]int64, error) {
	if len(productIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []CountByID
	err := r.db.Model(&models.ProductComment{}).
		Select("product_id AS id, COUNT(*) AS count").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countsToMap(rows), nil
}
