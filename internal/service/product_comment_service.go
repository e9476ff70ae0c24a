package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/http/validation"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"

	"gorm.io/gorm"
)

const productCommentMaxLength = 500

// ProductCommentService 商品评价服务
type ProductCommentService struct {
	commentRepo repository.ProductCommentRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
}

// NewProductCommentService 创建商品评价服务
func NewProductCommentService(commentRepo repository.ProductCommentRepository, orderRepo repository.OrderRepository, userRepo repository.UserRepository) *ProductCommentService {
	return &ProductCommentService{
		commentRepo: commentRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
	}
}

// CreateProductCommentInput 创建评价输入
type CreateProductCommentInput struct {
	OrderID uint
	Content string
	Star    float64
}

// Create 为已收货订单发表评价，每个订单仅能评价一次
// 校验顺序：订单归属、重复评价、订单状态、星级
func (s *ProductCommentService) Create(ctx context.Context, userID uint, input CreateProductCommentInput) (*ProductCommentView, error) {
	if input.OrderID == 0 {
		return nil, newValidationError("order_id", "required")
	}
	input.Content = strings.TrimSpace(input.Content)
	if len([]rune(input.Content)) > productCommentMaxLength {
		return nil, newValidationError("content", "max")
	}

	var created *models.ProductComment
	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).GetByIDAndUser(input.OrderID, userID)
		if err != nil {
			return err
		}
		if order == nil || order.Variant == nil {
			return ErrNotFound
		}
		commentRepo := s.commentRepo.WithTx(tx)
		existing, err := commentRepo.GetByOrderID(order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrCommentExists
		}
		if order.Status != constants.OrderStatusReceived {
			return newValidationError("status", "received")
		}
		if !validation.IsValidStar(input.Star) {
			return ErrStarInvalid
		}
		comment := &models.ProductComment{
			OrderID:     order.ID,
			ProductID:   order.Variant.ProductID,
			UserID:      userID,
			Content:     input.Content,
			Star:        input.Star,
			CommentTime: time.Now(),
		}
		if err := commentRepo.Create(comment); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrCommentExists
			}
			return err
		}
		created = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return &ProductCommentView{
		OrderID:        created.OrderID,
		User:           buildUserBrief(user),
		Content:        created.Content,
		CommentTime:    created.CommentTime,
		CommentLikeNum: created.CommentLikeNum,
		Star:           created.Star,
	}, nil
}

// Like 为评价点赞，计数原子自增
func (s *ProductCommentService) Like(orderID uint) error {
	affected, err := s.commentRepo.IncrementLike(orderID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
