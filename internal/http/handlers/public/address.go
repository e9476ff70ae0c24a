package public

import (
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 地址创建/更新请求
type AddressRequest struct {
	Address   string `json:"address" binding:"required,max=50"`
	Phone     string `json:"phone" binding:"required,mobile"`
	IsDefault bool   `json:"is_default"`
}

func (r AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Address:   r.Address,
		Phone:     r.Phone,
		IsDefault: r.IsDefault,
	}
}

// GetMyAddresses 获取地址列表
func (h *Handler) GetMyAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(uid)
	if err != nil {
		respondAddressError(c, err, "error.query_failed")
		return
	}
	response.Success(c, addresses)
}

// GetMyDefaultAddress 获取默认地址
func (h *Handler) GetMyDefaultAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	address, err := h.AddressService.GetDefault(uid)
	if err != nil {
		respondAddressError(c, err, "error.query_failed")
		return
	}
	response.Success(c, address)
}

// CreateMyAddress 新增地址
func (h *Handler) CreateMyAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	address, err := h.AddressService.Create(uid, req.toInput())
	if err != nil {
		respondAddressError(c, err, "error.save_failed")
		return
	}
	response.Success(c, address)
}

// UpdateMyAddress 更新地址
func (h *Handler) UpdateMyAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	address, err := h.AddressService.Update(uid, addressID, req.toInput())
	if err != nil {
		respondAddressError(c, err, "error.save_failed")
		return
	}
	response.Success(c, address)
}

// DeleteMyAddress 删除地址
func (h *Handler) DeleteMyAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.AddressService.Delete(uid, addressID); err != nil {
		respondAddressError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
