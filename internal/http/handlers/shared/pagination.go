package shared

import (
	"strconv"
	"strings"

	"github.com/shoppingmall/internal/http/response"

	"github.com/gin-gonic/gin"
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// ParseOptionalPagination 读取可选分页参数，未提供 page_size 时返回 (0, 0) 表示全量
func ParseOptionalPagination(c *gin.Context) (int, int, bool) {
	rawSize := strings.TrimSpace(c.Query("page_size"))
	rawPage := strings.TrimSpace(c.Query("page"))
	if rawSize == "" && rawPage == "" {
		return 0, 0, true
	}
	page, pageSize := 1, 20
	if rawPage != "" {
		value, err := strconv.Atoi(rawPage)
		if err != nil || value < 1 {
			RespondError(c, response.CodeBadRequest, "error.page_invalid", nil)
			return 0, 0, false
		}
		page = value
	}
	if rawSize != "" {
		value, err := strconv.Atoi(rawSize)
		if err != nil || value < 1 {
			RespondError(c, response.CodeBadRequest, "error.page_invalid", nil)
			return 0, 0, false
		}
		pageSize = value
	}
	page, pageSize = NormalizePagination(page, pageSize)
	return page, pageSize, true
}

// ParsePagination 读取分页参数并归一化。
func ParsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return NormalizePagination(page, pageSize)
}
