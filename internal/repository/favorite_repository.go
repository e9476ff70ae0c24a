package repository

import (
	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository 收藏数据访问接口
type FavoriteRepository interface {
	ListByUser(userID uint) ([]models.Favorite, error)
	Create(favorite *models.Favorite) error
	Delete(userID, productID uint) (int64, error)
}

// GormFavoriteRepository GORM 实现
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建收藏仓库
func NewFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// ListByUser 获取用户收藏
func (r *GormFavoriteRepository) ListByUser(userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}

// Create 添加收藏
func (r *GormFavoriteRepository) Create(favorite *models.Favorite) error {
	return normalizeError(r.db.Create(favorite).Error)
}

// Delete 取消收藏
func (r *GormFavoriteRepository) Delete(userID, productID uint) (int64, error) {
	result := r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.Favorite{})
	return result.RowsAffected, result.Error
}
