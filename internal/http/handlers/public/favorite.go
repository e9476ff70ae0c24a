package public

import (
	"errors"

	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
)

// FavoriteRequest 收藏请求
type FavoriteRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetMyFavorites 获取收藏列表
func (h *Handler) GetMyFavorites(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.FavoriteService.List(uid)
	if err != nil {
		respondFavoriteError(c, err, "error.query_failed")
		return
	}
	response.Success(c, items)
}

// AddMyFavorite 收藏商品
func (h *Handler) AddMyFavorite(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.FavoriteService.Add(uid, req.ProductID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondFavoriteError(c, err, "error.save_failed")
		return
	}
	response.Success(c, gin.H{"favorited": true})
}

// RemoveMyFavorite 取消收藏
func (h *Handler) RemoveMyFavorite(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	if err := h.FavoriteService.Remove(uid, productID); err != nil {
		respondFavoriteError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"favorited": false})
}
