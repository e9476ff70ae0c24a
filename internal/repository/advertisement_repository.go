package repository

import (
	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
)

// AdvertisementRepository 广告位数据访问接口
type AdvertisementRepository interface {
	ListActive() ([]models.Advertisement, error)
	GetByID(id uint) (*models.Advertisement, error)
	Create(ad *models.Advertisement) error
	Delete(id uint) error
}

// GormAdvertisementRepository GORM 实现
type GormAdvertisementRepository struct {
	db *gorm.DB
}

// NewAdvertisementRepository 创建广告仓库
func NewAdvertisementRepository(db *gorm.DB) *GormAdvertisementRepository {
	return &GormAdvertisementRepository{db: db}
}

// ListActive 获取跳转商品仍在上架的广告
func (r *GormAdvertisementRepository) ListActive() ([]models.Advertisement, error) {
	var ads []models.Advertisement
	err := r.db.Model(&models.Advertisement{}).
		Joins("JOIN base_products ON base_products.id = advertisements.product_id").
		Where("base_products.is_active = ?", true).
		Order("advertisements.id DESC").
		Find(&ads).Error
	if err != nil {
		return nil, err
	}
	return ads, nil
}

// GetByID 根据 ID 获取广告
func (r *GormAdvertisementRepository) GetByID(id uint) (*models.Advertisement, error) {
	return firstOrNil[models.Advertisement](r.db, id)
}

// Create 创建广告
func (r *GormAdvertisementRepository) Create(ad *models.Advertisement) error {
	return r.db.Create(ad).Error
}

// Delete 删除广告
func (r *GormAdvertisementRepository) Delete(id uint) error {
	return r.db.Delete(&models.Advertisement{}, id).Error
}
