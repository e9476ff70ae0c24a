package shared

import (
	"errors"

	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/http/validation"
	"github.com/shoppingmall/internal/i18n"
	"github.com/shoppingmall/internal/logger"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok {
			return logger.WithRequestID(id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondBindError 返回请求绑定失败响应，校验错误翻译为具体字段提示。
func RespondBindError(c *gin.Context, err error) {
	if msg := validation.Translate(err, i18n.ResolveLocale(c)); msg != "" {
		RespondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
}

type keyedError interface {
	Key() string
	Args() []interface{}
}

// respondDetailedError 处理携带字段或文案参数的业务错误，已处理时返回 true
func respondDetailedError(c *gin.Context, err error) bool {
	locale := i18n.ResolveLocale(c)
	var fieldErr *service.ValidationError
	if errors.As(err, &fieldErr) {
		RespondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, "error.validation_field", fieldErr.Field, fieldErr.Rule), nil)
		return true
	}
	var keyed keyedError
	if errors.As(err, &keyed) {
		RespondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, keyed.Key(), keyed.Args()...), nil)
		return true
	}
	return false
}
