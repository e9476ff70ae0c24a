package repository

import (
	"errors"

	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
)

// CascadeRepository 级联删除，返回被删除记录引用的存储文件地址
type CascadeRepository interface {
	DeleteUser(userID uint) ([]string, error)
	DeleteProduct(productID uint) ([]string, error)
	DeleteVariant(variantID uint) error
	DeletePost(postID uint) ([]string, error)
	DeleteOrder(orderID uint) error
	WithTx(tx *gorm.DB) *GormCascadeRepository
}

// GormCascadeRepository GORM 实现，调用方负责开启事务
type GormCascadeRepository struct {
	db *gorm.DB
}

// NewCascadeRepository 创建级联删除仓库
func NewCascadeRepository(db *gorm.DB) *GormCascadeRepository {
	return &GormCascadeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCascadeRepository) WithTx(tx *gorm.DB) *GormCascadeRepository {
	if tx == nil {
		return r
	}
	return &GormCascadeRepository{db: tx}
}

// DeleteUser 删除用户及其地址、订单、购物车、收藏、帖子、评论、点赞与关注关系
func (r *GormCascadeRepository) DeleteUser(userID uint) ([]string, error) {
	var files []string

	var postIDs []uint
	if err := r.db.Model(&models.Post{}).Where("user_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
		return nil, err
	}
	postFiles, err := r.deletePosts(postIDs)
	if err != nil {
		return nil, err
	}
	files = append(files, postFiles...)

	if err := r.db.Where("user_id = ?", userID).Delete(&models.PostComment{}).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("user_id = ?", userID).Delete(&models.PostLike{}).Error; err != nil {
		return nil, err
	}

	var orderIDs []uint
	if err := r.db.Model(&models.Order{}).Where("user_id = ?", userID).Pluck("id", &orderIDs).Error; err != nil {
		return nil, err
	}
	if err := r.deleteOrders(orderIDs); err != nil {
		return nil, err
	}

	owned := []interface{}{
		&models.Address{},
		&models.CartItem{},
		&models.Favorite{},
		&models.UserLoginLog{},
	}
	for _, model := range owned {
		if err := r.db.Where("user_id = ?", userID).Delete(model).Error; err != nil {
			return nil, err
		}
	}
	if err := r.db.Where("user_id = ? OR fan_id = ?", userID, userID).Delete(&models.Fan{}).Error; err != nil {
		return nil, err
	}

	var user models.User
	if err := r.db.Select("id", "icon").First(&user, userID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if user.Icon != "" {
		files = append(files, user.Icon)
	}
	if err := r.db.Delete(&models.User{}, userID).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteProduct 删除商品及其规格、订单、评价、图片、收藏与广告
func (r *GormCascadeRepository) DeleteProduct(productID uint) ([]string, error) {
	var variantIDs []uint
	if err := r.db.Model(&models.ProductVariant{}).Where("product_id = ?", productID).Pluck("id", &variantIDs).Error; err != nil {
		return nil, err
	}
	if err := r.deleteVariants(variantIDs); err != nil {
		return nil, err
	}

	var files []string
	var imageURLs []string
	if err := r.db.Model(&models.ProductImage{}).Where("product_id = ?", productID).Pluck("image", &imageURLs).Error; err != nil {
		return nil, err
	}
	files = append(files, imageURLs...)
	var adURLs []string
	if err := r.db.Model(&models.Advertisement{}).Where("product_id = ?", productID).Pluck("image", &adURLs).Error; err != nil {
		return nil, err
	}
	files = append(files, adURLs...)

	owned := []interface{}{
		&models.ProductComment{},
		&models.ProductImage{},
		&models.Favorite{},
		&models.Advertisement{},
	}
	for _, model := range owned {
		if err := r.db.Where("product_id = ?", productID).Delete(model).Error; err != nil {
			return nil, err
		}
	}
	if err := r.db.Delete(&models.BaseProduct{}, productID).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteVariant 删除规格及其购物车项与订单
func (r *GormCascadeRepository) DeleteVariant(variantID uint) error {
	return r.deleteVariants([]uint{variantID})
}

// DeletePost 删除帖子及其图片、评论、点赞
func (r *GormCascadeRepository) DeletePost(postID uint) ([]string, error) {
	return r.deletePosts([]uint{postID})
}

// DeleteOrder 删除订单及其评价
func (r *GormCascadeRepository) DeleteOrder(orderID uint) error {
	return r.deleteOrders([]uint{orderID})
}

func (r *GormCascadeRepository) deletePosts(postIDs []uint) ([]string, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var files []string
	if err := r.db.Model(&models.PostImage{}).Where("post_id IN ?", postIDs).Pluck("image", &files).Error; err != nil {
		return nil, err
	}
	owned := []interface{}{
		&models.PostImage{},
		&models.PostComment{},
		&models.PostLike{},
	}
	for _, model := range owned {
		if err := r.db.Where("post_id IN ?", postIDs).Delete(model).Error; err != nil {
			return nil, err
		}
	}
	if err := r.db.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *GormCascadeRepository) deleteVariants(variantIDs []uint) error {
	if len(variantIDs) == 0 {
		return nil
	}
	var orderIDs []uint
	if err := r.db.Model(&models.Order{}).Where("variant_id IN ?", variantIDs).Pluck("id", &orderIDs).Error; err != nil {
		return err
	}
	if err := r.deleteOrders(orderIDs); err != nil {
		return err
	}
	if err := r.db.Where("variant_id IN ?", variantIDs).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Where("id IN ?", variantIDs).Delete(&models.ProductVariant{}).Error
}

func (r *GormCascadeRepository) deleteOrders(orderIDs []uint) error {
	if len(orderIDs) == 0 {
		return nil
	}
	if err := r.db.Where("order_id IN ?", orderIDs).Delete(&models.ProductComment{}).Error; err != nil {
		return err
	}
	return r.db.Where("id IN ?", orderIDs).Delete(&models.Order{}).Error
}
