package public

import (
	"strings"

	handlershared "github.com/shoppingmall/internal/http/handlers/shared"
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateProductCommentRequest 商品评价请求
type CreateProductCommentRequest struct {
	OrderID uint    `json:"order_id" binding:"required"`
	Content string  `json:"content" binding:"required"`
	Star    float64 `json:"star" binding:"required,star"`
}

// GetMallProducts 获取上架商品列表，带 page_size 时分页返回
func (h *Handler) GetMallProducts(c *gin.Context) {
	page, pageSize, ok := handlershared.ParseOptionalPagination(c)
	if !ok {
		return
	}
	listing, err := h.ProductService.ListMall(c.Request.Context(), page, pageSize)
	if err != nil {
		respondMallError(c, err, "error.query_failed")
		return
	}
	if pageSize > 0 {
		response.SuccessWithPage(c, listing.Items, response.NewPagination(page, pageSize, listing.Total))
		return
	}
	response.Success(c, listing.Items)
}

// GetMallCategories 获取分类列表
func (h *Handler) GetMallCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondMallError(c, err, "error.query_failed")
		return
	}
	response.Success(c, categories)
}

// GetCategoryProducts 获取分类下的上架商品
func (h *Handler) GetCategoryProducts(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	result, err := h.ProductService.GetCategoryProducts(c.Request.Context(), name)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
		}, response.CodeInternal, "error.query_failed")
		return
	}
	response.Success(c, result)
}

// GetProductDetail 获取商品详情
func (h *Handler) GetProductDetail(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.ProductService.GetDetail(productID)
	if err != nil {
		respondMallError(c, err, "error.query_failed")
		return
	}
	response.Success(c, detail)
}

// GetMallAds 获取广告位
func (h *Handler) GetMallAds(c *gin.Context) {
	ads, err := h.ProductService.ListAds()
	if err != nil {
		respondMallError(c, err, "error.query_failed")
		return
	}
	response.Success(c, ads)
}

// CreateProductComment 为已收货订单发表评价
func (h *Handler) CreateProductComment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateProductCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	comment, err := h.ProductCommentService.Create(c.Request.Context(), uid, service.CreateProductCommentInput{
		OrderID: req.OrderID,
		Content: req.Content,
		Star:    req.Star,
	})
	if err != nil {
		respondProductCommentError(c, err, "error.save_failed")
		return
	}
	response.Success(c, comment)
}

// LikeProductComment 评价点赞
func (h *Handler) LikeProductComment(c *gin.Context) {
	orderID, ok := parseIDParam(c, "order_id")
	if !ok {
		return
	}
	if err := h.ProductCommentService.Like(orderID); err != nil {
		respondWithMappedError(c, err, commentNotFoundErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, gin.H{"liked": true})
}
