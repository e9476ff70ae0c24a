package service

import (
	"time"

	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
)

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	variantRepo repository.ProductVariantRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, variantRepo repository.ProductVariantRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		variantRepo: variantRepo,
	}
}

// ListByUser 获取用户购物车，跳过已下架商品的规格
func (s *CartService) ListByUser(userID uint) ([]CartItemView, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	visible := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.Variant == nil || item.Variant.Product == nil || !item.Variant.Product.IsActive {
			continue
		}
		visible = append(visible, item)
	}
	return buildCartItemViews(visible), nil
}

// UpsertItem 写入购物车项，数量小于等于 0 时移除
func (s *CartService) UpsertItem(userID, variantID uint, quantity int) error {
	if quantity <= 0 {
		_, err := s.cartRepo.DeleteByUserAndVariant(userID, variantID)
		return err
	}
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return err
	}
	if variant == nil {
		return ErrNotFound
	}
	if variant.Product == nil || !variant.Product.IsActive {
		return ErrProductInactive
	}
	now := time.Now()
	return s.cartRepo.Upsert(&models.CartItem{
		UserID:    userID,
		VariantID: variantID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, variantID uint) error {
	affected, err := s.cartRepo.DeleteByUserAndVariant(userID, variantID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
