package public

import (
	"strings"

	handlershared "github.com/shoppingmall/internal/http/handlers/shared"
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建订单请求，缺失字段由 service 层按字段报错
type CreateOrderRequest struct {
	AddressID *uint `json:"address_id"`
	ProduceID *uint `json:"produce_id"`
	Quantity  *int  `json:"quantity"`
}

// UpdateOrderStatusRequest 订单状态变更请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetMyOrders 获取订单列表
func (h *Handler) GetMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize, ok := handlershared.ParseOptionalPagination(c)
	if !ok {
		return
	}
	orders, total, err := h.OrderService.ListByUser(uid, service.ListOrdersInput{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondOrderError(c, err, "error.query_failed")
		return
	}
	if pageSize > 0 {
		response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
		return
	}
	response.Success(c, orders)
}

// GetMyOrder 获取订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetByUser(uid, orderID)
	if err != nil {
		respondOrderError(c, err, "error.query_failed")
		return
	}
	response.Success(c, order)
}

// CreateMyOrder 创建订单
func (h *Handler) CreateMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := h.OrderService.Create(uid, service.CreateOrderInput{
		AddressID: req.AddressID,
		ProduceID: req.ProduceID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondOrderError(c, err, "error.save_failed")
		return
	}
	response.Success(c, order)
}

// UpdateMyOrderStatus 用户侧订单状态变更（确认收货、申请售后）
func (h *Handler) UpdateMyOrderStatus(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := h.OrderService.UpdateStatusByUser(c.Request.Context(), uid, orderID, strings.TrimSpace(req.Status))
	if err != nil {
		respondOrderError(c, err, "error.save_failed")
		return
	}
	response.Success(c, order)
}

// DeleteMyOrder 删除订单及其评价
func (h *Handler) DeleteMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.Delete(uid, orderID); err != nil {
		respondOrderError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
