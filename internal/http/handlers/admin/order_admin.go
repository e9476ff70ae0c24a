package admin

import (
	"strings"

	handlershared "github.com/shoppingmall/internal/http/handlers/shared"
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 订单状态变更请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetAdminOrders 获取订单列表，可按状态筛选
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListAdmin(service.ListOrdersInput{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.query_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// UpdateOrderStatus 管理端订单状态变更（发货、售后、确认收货）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := h.OrderService.UpdateStatusByAdmin(c.Request.Context(), orderID, strings.TrimSpace(req.Status))
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	requestLog(c).Infow("admin_order_status_updated", "order_id", orderID, "status", order.Status)
	response.Success(c, order)
}
