package admin

import (
	handlershared "github.com/shoppingmall/internal/http/handlers/shared"
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondBindError(c *gin.Context, err error) {
	handlershared.RespondBindError(c, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

var categoryErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrCategoryExists, Code: response.CodeConflict, Key: "error.category_exists"},
	{Target: service.ErrCategoryInUse, Code: response.CodeConflict, Key: "error.category_in_use"},
}

var productErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrSurfaceRequired, Code: response.CodeBadRequest, Key: "error.surface_required"},
}

var variantErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.variant_not_found"},
	{Target: service.ErrVariantConflict, Code: response.CodeConflict, Key: "error.variant_conflict"},
}

var imageErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.image_not_found"},
	{Target: service.ErrImageOrderConflict, Code: response.CodeConflict, Key: "error.image_order_conflict"},
	{Target: service.ErrSurfaceRequired, Code: response.CodeBadRequest, Key: "error.surface_required"},
}

var adErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.ad_not_found"},
}

var orderErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
}
