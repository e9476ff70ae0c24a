package repository

import (
	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	List() ([]models.Category, error)
	GetByName(name string) (*models.Category, error)
	Create(category *models.Category) error
	Delete(name string) error
	CountProducts(name string) (int64, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List 分类列表
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("created_at ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByName 根据名称获取分类
func (r *GormCategoryRepository) GetByName(name string) (*models.Category, error) {
	return firstOrNil[models.Category](r.db.Where("name = ?", name))
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return normalizeError(r.db.Create(category).Error)
}

// Delete 删除分类
func (r *GormCategoryRepository) Delete(name string) error {
	return r.db.Where("name = ?", name).Delete(&models.Category{}).Error
}

// CountProducts 统计分类下商品数量
func (r *GormCategoryRepository) CountProducts(name string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.BaseProduct{}).Where("category_name = ?", name).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
