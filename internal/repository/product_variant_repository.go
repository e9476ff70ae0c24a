package repository

import (
	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
)

// ProductVariantRepository 商品规格数据访问接口
type ProductVariantRepository interface {
	Create(variant *models.ProductVariant) error
	Update(variant *models.ProductVariant) error
	GetByID(id uint) (*models.ProductVariant, error)
	ListByProduct(productID uint) ([]models.ProductVariant, error)
	ListByIDs(ids []uint) ([]models.ProductVariant, error)
	WithTx(tx *gorm.DB) *GormProductVariantRepository
}

// GormProductVariantRepository GORM 实现
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewProductVariantRepository 创建商品规格仓库
func NewProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductVariantRepository) WithTx(tx *gorm.DB) *GormProductVariantRepository {
	if tx == nil {
		return r
	}
	return &GormProductVariantRepository{db: tx}
}

// Create 创建规格
func (r *GormProductVariantRepository) Create(variant *models.ProductVariant) error {
	return normalizeError(r.db.Create(variant).Error)
}

// Update 更新规格
func (r *GormProductVariantRepository) Update(variant *models.ProductVariant) error {
	return normalizeError(r.db.Save(variant).Error)
}

// GetByID 根据 ID 获取规格（附带所属商品）
func (r *GormProductVariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	return firstOrNil[models.ProductVariant](r.db.Preload("Product"), id)
}

// ListByProduct 获取商品的全部规格，按展示序号排序
func (r *GormProductVariantRepository) ListByProduct(productID uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if err := r.db.Where("product_id = ?", productID).Order("slot_order ASC, id ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// ListByIDs 批量获取规格（附带所属商品）
func (r *GormProductVariantRepository) ListByIDs(ids []uint) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return []models.ProductVariant{}, nil
	}
	var variants []models.ProductVariant
	if err := r.db.Preload("Product").Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}
