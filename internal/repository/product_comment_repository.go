package repository

import (
	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
)

// ProductCommentRepository 商品评价数据访问接口
type ProductCommentRepository interface {
	GetByOrderID(orderID uint) (*models.ProductComment, error)
	Create(comment *models.ProductComment) error
	ListByProduct(productID uint) ([]models.ProductComment, error)
	IncrementLike(orderID uint) (int64, error)
	CommentedOrderIDs(orderIDs []uint) (map[uint]bool, error)
	WithTx(tx *gorm.DB) *GormProductCommentRepository
}

// GormProductCommentRepository GORM 实现
type GormProductCommentRepository struct {
	db *gorm.DB
}

// NewProductCommentRepository 创建商品评价仓库
func NewProductCommentRepository(db *gorm.DB) *GormProductCommentRepository {
	return &GormProductCommentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductCommentRepository) WithTx(tx *gorm.DB) *GormProductCommentRepository {
	if tx == nil {
		return r
	}
	return &GormProductCommentRepository{db: tx}
}

// GetByOrderID 根据订单获取评价
func (r *GormProductCommentRepository) GetByOrderID(orderID uint) (*models.ProductComment, error) {
	return firstOrNil[models.ProductComment](r.db.Where("order_id = ?", orderID))
}

// Create 创建评价
func (r *GormProductCommentRepository) Create(comment *models.ProductComment) error {
	return normalizeError(r.db.Create(comment).Error)
}

// ListByProduct 获取商品评价，按评分升序
func (r *GormProductCommentRepository) ListByProduct(productID uint) ([]models.ProductComment, error) {
	var comments []models.ProductComment
	if err := r.db.Where("product_id = ?", productID).Order("star ASC, comment_time ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// IncrementLike 评价点赞数加一
func (r *GormProductCommentRepository) IncrementLike(orderID uint) (int64, error) {
	result := r.db.Model(&models.ProductComment{}).
		Where("order_id = ?", orderID).
		UpdateColumn("comment_like_num", gorm.Expr("comment_like_num + 1"))
	return result.RowsAffected, result.Error
}

// CommentedOrderIDs 批量判断订单是否已评价
func (r *GormProductCommentRepository) CommentedOrderIDs(orderIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}
	var ids []uint
	if err := r.db.Model(&models.ProductComment{}).Where("order_id IN ?", orderIDs).Pluck("order_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
