package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/shoppingmall/internal/http/handlers/shared"
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
)

const imageFormField = "image"

// CategoryRequest 分类创建请求
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=10"`
}

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Category string `json:"category" binding:"required,max=10"`
	IsActive *bool  `json:"is_active"`
}

// VariantRequest 规格创建/更新请求
type VariantRequest struct {
	ChildName string       `json:"child_name" binding:"required,max=30"`
	Price     models.Money `json:"price"`
	Order     int          `json:"order" binding:"min=0"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{Name: r.Name, Category: r.Category, IsActive: r.IsActive}
}

func (r VariantRequest) toInput() service.VariantInput {
	return service.VariantInput{ChildName: r.ChildName, Price: r.Price, Order: r.Order}
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := h.CategoryService.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类，仍有商品时拒绝
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.CategoryService.Delete(c.Request.Context(), strings.TrimSpace(c.Param("name"))); err != nil {
		respondWithMappedError(c, err, categoryErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetAdminProducts 获取商品列表（含未上架）
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	products, total, err := h.ProductService.AdminList(page, pageSize, strings.TrimSpace(c.Query("category")))
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetAdminProduct 获取商品详情（含规格与图片）
func (h *Handler) GetAdminProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	h.respondAdminProduct(c, productID)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := h.ProductService.CreateProduct(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	h.respondAdminProduct(c, product.ID)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if _, err := h.ProductService.UpdateProduct(c.Request.Context(), productID, req.toInput()); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	h.respondAdminProduct(c, productID)
}

// DeleteProduct 删除商品及其规格、图片、评价、收藏与广告
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteProduct(c.Request.Context(), productID); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// CreateVariant 创建规格
func (h *Handler) CreateVariant(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	variant, err := h.ProductService.CreateVariant(c.Request.Context(), productID, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, handlershared.ConcatMappedErrors(productErrorRules, variantErrorRules), response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, variant)
}

// UpdateVariant 更新规格
func (h *Handler) UpdateVariant(c *gin.Context) {
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	variant, err := h.ProductService.UpdateVariant(c.Request.Context(), variantID, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, variantErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, variant)
}

// DeleteVariant 删除规格及其购物车项与订单
func (h *Handler) DeleteVariant(c *gin.Context) {
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteVariant(c.Request.Context(), variantID); err != nil {
		respondWithMappedError(c, err, variantErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// UploadProductImage 上传商品图片（multipart：image，可选 order_number）
func (h *Handler) UploadProductImage(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile(imageFormField)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.empty_upload", nil)
		return
	}
	orderNumber := 0
	if raw := strings.TrimSpace(c.PostForm("order_number")); raw != "" {
		value, convErr := strconv.Atoi(raw)
		if convErr != nil || value <= 0 {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		orderNumber = value
	}
	image, err := h.ProductService.AddImage(c.Request.Context(), productID, orderNumber, file)
	if err != nil {
		respondWithMappedError(c, err, handlershared.ConcatMappedErrors(productErrorRules, imageErrorRules), response.CodeInternal, "error.upload_failed")
		return
	}
	response.Success(c, image)
}

// DeleteProductImage 删除商品图片
func (h *Handler) DeleteProductImage(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	orderNumber, ok := handlershared.ParseIntParam(c, "order_number")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteImage(c.Request.Context(), productID, orderNumber); err != nil {
		respondWithMappedError(c, err, imageErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// CreateAd 创建广告（multipart：product_id、image）
func (h *Handler) CreateAd(c *gin.Context) {
	productID, err := strconv.ParseUint(strings.TrimSpace(c.PostForm("product_id")), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	file, err := c.FormFile(imageFormField)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.empty_upload", nil)
		return
	}
	ad, err := h.ProductService.CreateAd(c.Request.Context(), uint(productID), file)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.upload_failed")
		return
	}
	response.Success(c, ad)
}

// DeleteAd 删除广告
func (h *Handler) DeleteAd(c *gin.Context) {
	adID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteAd(c.Request.Context(), adID); err != nil {
		respondWithMappedError(c, err, adErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func (h *Handler) respondAdminProduct(c *gin.Context, productID uint) {
	view, err := h.ProductService.AdminGet(productID)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.query_failed")
		return
	}
	response.Success(c, view)
}
