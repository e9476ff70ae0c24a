package repository

import (
	"time"

	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddressRepository 收货地址数据访问接口
type AddressRepository interface {
	ListByUser(userID uint) ([]models.Address, error)
	GetByID(id uint) (*models.Address, error)
	GetByIDAndUser(id, userID uint) (*models.Address, error)
	GetByIDForUpdate(id uint) (*models.Address, error)
	GetDefault(userID uint) (*models.Address, error)
	ListByIDs(ids []uint) ([]models.Address, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	Delete(id uint) error
	ClearDefault(userID uint, exceptID uint) error
	CountOrders(addressID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormAddressRepository
}

// GormAddressRepository GORM 实现
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓库
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAddressRepository) WithTx(tx *gorm.DB) *GormAddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// ListByUser 获取用户全部地址，默认地址优先
func (r *GormAddressRepository) ListByUser(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Where("user_id = ?", userID).Order("is_default DESC, id ASC").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// GetByID 根据 ID 获取地址
func (r *GormAddressRepository) GetByID(id uint) (*models.Address, error) {
	return firstOrNil[models.Address](r.db, id)
}

// GetByIDAndUser 获取指定用户的地址
func (r *GormAddressRepository) GetByIDAndUser(id, userID uint) (*models.Address, error) {
	return firstOrNil[models.Address](r.db.Where("id = ? AND user_id = ?", id, userID))
}

// GetByIDForUpdate 加行锁读取地址，需在事务内调用
func (r *GormAddressRepository) GetByIDForUpdate(id uint) (*models.Address, error) {
	return firstOrNil[models.Address](r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// GetDefault 获取用户默认地址
func (r *GormAddressRepository) GetDefault(userID uint) (*models.Address, error) {
	return firstOrNil[models.Address](r.db.Where("user_id = ? AND is_default = ?", userID, true).Order("id ASC"))
}

// ListByIDs 批量获取地址
func (r *GormAddressRepository) ListByIDs(ids []uint) ([]models.Address, error) {
	if len(ids) == 0 {
		return []models.Address{}, nil
	}
	var addresses []models.Address
	if err := r.db.Where("id IN ?", ids).Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// Create 创建地址
func (r *GormAddressRepository) Create(address *models.Address) error {
	return r.db.Create(address).Error
}

// Update 更新地址
func (r *GormAddressRepository) Update(address *models.Address) error {
	return r.db.Save(address).Error
}

// Delete 删除地址
func (r *GormAddressRepository) Delete(id uint) error {
	return r.db.Delete(&models.Address{}, id).Error
}

// ClearDefault 取消用户除 exceptID 外的默认地址
func (r *GormAddressRepository) ClearDefault(userID uint, exceptID uint) error {
	query := r.db.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Updates(map[string]interface{}{
		"is_default": false,
		"updated_at": time.Now(),
	}).Error
}

// CountOrders 统计引用该地址的订单数
func (r *GormAddressRepository) CountOrders(addressID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("address_id = ?", addressID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
