package repository

import (
	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
)

// FanRepository 关注关系数据访问接口
type FanRepository interface {
	Exists(userID, fanID uint) (bool, error)
	Create(fan *models.Fan) error
	Delete(userID, fanID uint) (int64, error)
	ListFans(userID uint) ([]models.User, error)
	ListSubscriptions(fanID uint) ([]models.User, error)
	ListFollowedIDs(fanID uint) ([]uint, error)
	CountFans(userIDs []uint) (map[uint]int64, error)
	CountSubscriptions(userIDs []uint) (map[uint]int64, error)
}

// GormFanRepository GORM 实现
type GormFanRepository struct {
	db *gorm.DB
}

// NewFanRepository 创建关注关系仓库
func NewFanRepository(db *gorm.DB) *GormFanRepository {
	return &GormFanRepository{db: db}
}

// Exists 判断 fanID 是否已关注 userID
func (r *GormFanRepository) Exists(userID, fanID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Fan{}).Where("user_id = ? AND fan_id = ?", userID, fanID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建关注关系
func (r *GormFanRepository) Create(fan *models.Fan) error {
	return normalizeError(r.db.Create(fan).Error)
}

// Delete 取消关注
func (r *GormFanRepository) Delete(userID, fanID uint) (int64, error) {
	result := r.db.Where("user_id = ? AND fan_id = ?", userID, fanID).Delete(&models.Fan{})
	return result.RowsAffected, result.Error
}

// ListFans 获取用户的粉丝
func (r *GormFanRepository) ListFans(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Model(&models.User{}).
		Joins("JOIN fans ON fans.fan_id = users.id").
		Where("fans.user_id = ?", userID).
		Order("fans.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListSubscriptions 获取用户关注的人
func (r *GormFanRepository) ListSubscriptions(fanID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Model(&models.User{}).
		Joins("JOIN fans ON fans.user_id = users.id").
		Where("fans.fan_id = ?", fanID).
		Order("fans.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListFollowedIDs 获取用户关注的人的 ID
func (r *GormFanRepository) ListFollowedIDs(fanID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Fan{}).Where("fan_id = ?", fanID).Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountFans 批量统计粉丝数
func (r *GormFanRepository) CountFans(userIDs []uint) (map[uint]int64, error) {
	return r.countGrouped("user_id", userIDs)
}

// CountSubscriptions 批量统计关注数
func (r *GormFanRepository) CountSubscriptions(userIDs []uint) (map[uint]int64, error) {
	return r.countGrouped("fan_id", userIDs)
}

func (r *GormFanRepository) countGrouped(column string, ids []uint) (map[uint]int64, error) {
	if len(ids) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []CountByID
	err := r.db.Model(&models.Fan{}).
		Select(column+" AS id, COUNT(*) AS count").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countsToMap(rows), nil
}
