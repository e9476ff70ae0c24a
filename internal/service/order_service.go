package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/logger"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/queue"
	"github.com/shoppingmall/internal/repository"

	"gorm.io/gorm"
)

const defaultAutoReceiveDays = 7

// OrderService 订单服务
type OrderService struct {
	orderRepo       repository.OrderRepository
	addressRepo     repository.AddressRepository
	variantRepo     repository.ProductVariantRepository
	commentRepo     repository.ProductCommentRepository
	cascadeRepo     repository.CascadeRepository
	queueClient     *queue.Client
	autoReceiveDays int
}

// OrderServiceOptions 订单服务构造参数
type OrderServiceOptions struct {
	OrderRepo       repository.OrderRepository
	AddressRepo     repository.AddressRepository
	VariantRepo     repository.ProductVariantRepository
	CommentRepo     repository.ProductCommentRepository
	CascadeRepo     repository.CascadeRepository
	QueueClient     *queue.Client
	AutoReceiveDays int
}

// NewOrderService 创建订单服务
func NewOrderService(opts OrderServiceOptions) *OrderService {
	days := opts.AutoReceiveDays
	if days <= 0 {
		days = defaultAutoReceiveDays
	}
	return &OrderService{
		orderRepo:       opts.OrderRepo,
		addressRepo:     opts.AddressRepo,
		variantRepo:     opts.VariantRepo,
		commentRepo:     opts.CommentRepo,
		cascadeRepo:     opts.CascadeRepo,
		queueClient:     opts.QueueClient,
		autoReceiveDays: days,
	}
}

// CreateOrderInput 创建订单输入，指针字段用于区分缺失
type CreateOrderInput struct {
	AddressID *uint
	ProduceID *uint
	Quantity  *int
}

// ListOrdersInput 订单列表查询输入
type ListOrdersInput struct {
	Page     int
	PageSize int
	Status   string
}

// AutoReceiveDelay 发货后自动确认收货的等待时长
func (s *OrderService) AutoReceiveDelay() time.Duration {
	return time.Duration(s.autoReceiveDays) * 24 * time.Hour
}

// Create 创建订单，地址与规格校验和写入在同一事务内完成
func (s *OrderService) Create(userID uint, input CreateOrderInput) (*OrderView, error) {
	if input.AddressID == nil || *input.AddressID == 0 {
		return nil, newValidationError("address_id", "required")
	}
	if input.ProduceID == nil || *input.ProduceID == 0 {
		return nil, newValidationError("produce_id", "required")
	}
	if input.Quantity == nil {
		return nil, newValidationError("quantity", "required")
	}
	if *input.Quantity < 1 {
		return nil, newValidationError("quantity", "min")
	}

	var created *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		address, err := s.addressRepo.WithTx(tx).GetByIDForUpdate(*input.AddressID)
		if err != nil {
			return err
		}
		if address == nil || address.UserID != userID {
			return ErrNotFound
		}
		variant, err := s.variantRepo.WithTx(tx).GetByID(*input.ProduceID)
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
		order := &models.Order{
			UserID:      userID,
			VariantID:   variant.ID,
			AddressID:   address.ID,
			Quantity:    *input.Quantity,
			Status:      constants.OrderStatusAwaitingShipment,
			PaymentTime: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrOrderDuplicate
			}
			return err
		}
		order.Variant = variant
		order.Address = address
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	view := buildOrderView(created, false)
	return &view, nil
}

// ListByUser 获取用户订单列表
func (s *OrderService) ListByUser(userID uint, input ListOrdersInput) ([]OrderView, int64, error) {
	status, err := normalizeOrderStatusFilter(input.Status)
	if err != nil {
		return nil, 0, err
	}
	orders, total, err := s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
		UserID:   userID,
		Status:   status,
	})
	if err != nil {
		return nil, 0, err
	}
	return s.withCommented(orders, total)
}

// ListAdmin 管理端订单列表
func (s *OrderService) ListAdmin(input ListOrdersInput) ([]OrderView, int64, error) {
	status, err := normalizeOrderStatusFilter(input.Status)
	if err != nil {
		return nil, 0, err
	}
	orders, total, err := s.orderRepo.ListAdmin(repository.OrderListFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
		Status:   status,
	})
	if err != nil {
		return nil, 0, err
	}
	return s.withCommented(orders, total)
}

// GetByUser 获取本人订单详情
func (s *OrderService) GetByUser(userID, orderID uint) (*OrderView, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	commented, err := s.commentRepo.CommentedOrderIDs([]uint{order.ID})
	if err != nil {
		return nil, err
	}
	view := buildOrderView(order, commented[order.ID])
	return &view, nil
}

// UpdateStatusByUser 用户变更本人订单状态
func (s *OrderService) UpdateStatusByUser(ctx context.Context, userID, orderID uint, status string) (*OrderView, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return s.transition(ctx, order, status, constants.OrderActorUser)
}

// UpdateStatusByAdmin 管理员变更订单状态
func (s *OrderService) UpdateStatusByAdmin(ctx context.Context, orderID uint, status string) (*OrderView, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return s.transition(ctx, order, status, constants.OrderActorAdmin)
}

// Delete 删除本人订单及其评价
func (s *OrderService) Delete(userID, orderID uint) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).GetByIDAndUser(orderID, userID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrNotFound
		}
		return s.cascadeRepo.WithTx(tx).DeleteOrder(order.ID)
	})
}

// AutoReceive 将仍处于已发货的订单确认收货，状态已变化时静默跳过
func (s *OrderService) AutoReceive(orderID uint) (bool, error) {
	now := time.Now()
	affected, err := s.orderRepo.UpdateStatus(orderID, constants.OrderStatusShipped, map[string]interface{}{
		"status":      constants.OrderStatusReceived,
		"received_at": now,
		"updated_at":  now,
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SweepAutoReceive 批量确认超时未收货的订单，返回处理数量
func (s *OrderService) SweepAutoReceive(now time.Time) (int, error) {
	before := now.Add(-s.AutoReceiveDelay())
	received := 0
	for {
		orders, err := s.orderRepo.ListShippedBefore(before, constants.OrderAutoReceiveBatch)
		if err != nil {
			return received, err
		}
		batch := 0
		for _, order := range orders {
			ok, err := s.AutoReceive(order.ID)
			if err != nil {
				return received, err
			}
			if ok {
				batch++
			}
		}
		received += batch
		if len(orders) < constants.OrderAutoReceiveBatch || batch == 0 {
			return received, nil
		}
	}
}

func (s *OrderService) transition(ctx context.Context, order *models.Order, status, actor string) (*OrderView, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, newValidationError("status", "required")
	}
	if !isValidOrderStatus(status) || !canTransitionOrder(order.Status, status, actor) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	switch status {
	case constants.OrderStatusShipped:
		updates["shipped_at"] = now
	case constants.OrderStatusReceived:
		updates["received_at"] = now
	}
	affected, err := s.orderRepo.UpdateStatus(order.ID, order.Status, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderStatusInvalid
	}
	logger.Infow("order_status_changed",
		"order_id", order.ID,
		"from", order.Status,
		"to", status,
		"actor", actor,
	)
	if status == constants.OrderStatusShipped {
		s.scheduleAutoReceive(order.ID)
	}

	updated, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	commented, err := s.commentRepo.CommentedOrderIDs([]uint{updated.ID})
	if err != nil {
		return nil, err
	}
	view := buildOrderView(updated, commented[updated.ID])
	return &view, nil
}

func (s *OrderService) scheduleAutoReceive(orderID uint) {
	if s.queueClient == nil {
		return
	}
	err := s.queueClient.EnqueueOrderAutoReceive(queue.OrderAutoReceivePayload{OrderID: orderID}, s.AutoReceiveDelay())
	if err != nil {
		logger.Warnw("order_auto_receive_enqueue_failed", "order_id", orderID, "error", err)
	}
}

func (s *OrderService) withCommented(orders []models.Order, total int64) ([]OrderView, int64, error) {
	ids := make([]uint, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	commented, err := s.commentRepo.CommentedOrderIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	return buildOrderViews(orders, commented), total, nil
}

func normalizeOrderStatusFilter(status string) (string, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return "", nil
	}
	if !isValidOrderStatus(status) {
		return "", newValidationError("status", "oneof")
	}
	return status, nil
}
