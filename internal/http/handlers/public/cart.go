package public

import (
	"github.com/shoppingmall/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求，数量小于等于 0 时移除
type CartItemRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondCartError(c, err, "error.query_failed")
		return
	}
	response.Success(c, items)
}

// UpsertCartItem 添加或更新购物车项
func (h *Handler) UpsertCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.CartService.UpsertItem(uid, req.VariantID, req.Quantity); err != nil {
		respondWithMappedError(c, err, mallVariantErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	items, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondCartError(c, err, "error.query_failed")
		return
	}
	response.Success(c, items)
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variant_id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(uid, variantID); err != nil {
		respondCartError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
