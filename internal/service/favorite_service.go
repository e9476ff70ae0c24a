package service

import (
	"errors"
	"time"

	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
)

// FavoriteService 商品收藏服务
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
	imageRepo    repository.ProductImageRepository
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, productRepo repository.ProductRepository, imageRepo repository.ProductImageRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
		imageRepo:    imageRepo,
	}
}

// List 获取收藏的上架商品
func (s *FavoriteService) List(userID uint) ([]ProductListItem, error) {
	favorites, err := s.favoriteRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(favorites))
	for _, favorite := range favorites {
		ids = append(ids, favorite.ProductID)
	}
	if len(ids) == 0 {
		return []ProductListItem{}, nil
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	active := make([]models.BaseProduct, 0, len(products))
	for _, product := range products {
		if product.IsActive {
			active = append(active, product)
		}
	}
	return assembleProductListItems(s.productRepo, s.imageRepo, active)
}

// Add 收藏商品
func (s *FavoriteService) Add(userID, productID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrNotFound
	}
	err = s.favoriteRepo.Create(&models.Favorite{UserID: userID, ProductID: productID, CreatedAt: time.Now()})
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrFavoriteExists
	}
	return err
}

// Remove 取消收藏
func (s *FavoriteService) Remove(userID, productID uint) error {
	affected, err := s.favoriteRepo.Delete(userID, productID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
