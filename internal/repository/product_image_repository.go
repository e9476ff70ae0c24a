package repository

import (
	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
)

// ProductImageRepository 商品图片数据访问接口
type ProductImageRepository interface {
	ListByProduct(productID uint) ([]models.ProductImage, error)
	Surfaces(productIDs []uint) (map[uint]string, error)
	GetByProductAndOrder(productID uint, orderNumber int) (*models.ProductImage, error)
	MaxOrderNumber(productID uint) (int, error)
	Create(image *models.ProductImage) error
	Delete(id uint) error
}

// GormProductImageRepository GORM 实现
type GormProductImageRepository struct {
	db *gorm.DB
}

// NewProductImageRepository 创建商品图片仓库
func NewProductImageRepository(db *gorm.DB) *GormProductImageRepository {
	return &GormProductImageRepository{db: db}
}

// ListByProduct 获取商品图片，按序号排序
func (r *GormProductImageRepository) ListByProduct(productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := r.db.Where("product_id = ?", productID).Order("order_number ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Surfaces 批量获取商品封面（序号 1 的图片），没有封面的商品不出现在结果中
func (r *GormProductImageRepository) Surfaces(productIDs []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	var images []models.ProductImage
	err := r.db.Where("product_id IN ? AND order_number = ?", productIDs, constants.SurfaceOrderNumber).Find(&images).Error
	if err != nil {
		return nil, err
	}
	for _, image := range images {
		result[image.ProductID] = image.Image
	}
	return result, nil
}

// GetByProductAndOrder 根据商品与序号获取图片
func (r *GormProductImageRepository) GetByProductAndOrder(productID uint, orderNumber int) (*models.ProductImage, error) {
	return firstOrNil[models.ProductImage](r.db.Where("product_id = ? AND order_number = ?", productID, orderNumber))
}

// MaxOrderNumber 获取商品当前最大图片序号
func (r *GormProductImageRepository) MaxOrderNumber(productID uint) (int, error) {
	var max int
	err := r.db.Model(&models.ProductImage{}).
		Select("COALESCE(MAX(order_number), 0)").
		Where("product_id = ?", productID).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// Create 创建图片
func (r *GormProductImageRepository) Create(image *models.ProductImage) error {
	return normalizeError(r.db.Create(image).Error)
}

// Delete 删除图片
func (r *GormProductImageRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProductImage{}, id).Error
}
