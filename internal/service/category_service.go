package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
)

const categoryNameMaxLength = 10

// CategoryService 商品分类服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List 获取全部分类
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newValidationError("name", "required")
	}
	if len([]rune(name)) > categoryNameMaxLength {
		return nil, newValidationError("name", "max")
	}
	category := &models.Category{Name: name, CreatedAt: time.Now()}
	if err := s.repo.Create(category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	invalidateCatalogCache(ctx)
	return category, nil
}

// Delete 删除分类，仍有商品引用时拒绝
func (s *CategoryService) Delete(ctx context.Context, name string) error {
	category, err := s.repo.GetByName(strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}
	count, err := s.repo.CountProducts(category.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.Delete(category.Name); err != nil {
		return err
	}
	invalidateCatalogCache(ctx)
	return nil
}
