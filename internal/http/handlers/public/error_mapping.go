package public

import (
	handlershared "github.com/shoppingmall/internal/http/handlers/shared"
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError = handlershared.MappedError

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	return handlershared.ConcatMappedErrors(groups...)
}

var captchaErrorRules = []mappedHandlerError{
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeInternal, Key: "error.captcha_config_invalid"},
}

var userAuthErrorRules = []mappedHandlerError{
	{Target: service.ErrUsernameExists, Code: response.CodeConflict, Key: "error.username_exists"},
	{Target: service.ErrPasswordMismatch, Code: response.CodeUnauthorized, Key: "error.password_mismatch"},
}

var userErrorRules = []mappedHandlerError{
	{Target: service.ErrSelfFollow, Code: response.CodeBadRequest, Key: "error.self_follow"},
	{Target: service.ErrAlreadyFollowing, Code: response.CodeConflict, Key: "error.already_following"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.follow_not_found"},
	{Target: service.ErrProfileEmpty, Code: response.CodeBadRequest, Key: "error.profile_empty"},
}

var addressErrorRules = []mappedHandlerError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.address_not_found"},
	{Target: service.ErrAddressInUse, Code: response.CodeConflict, Key: "error.address_in_use"},
}

var orderErrorRules = []mappedHandlerError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderDuplicate, Code: response.CodeConflict, Key: "error.order_duplicate"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
}

var cartErrorRules = []mappedHandlerError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
}

var favoriteErrorRules = []mappedHandlerError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.favorite_not_found"},
	{Target: service.ErrFavoriteExists, Code: response.CodeConflict, Key: "error.favorite_exists"},
}

var mallErrorRules = []mappedHandlerError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
}

var mallVariantErrorRules = []mappedHandlerError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.variant_not_found"},
}

var commentNotFoundErrorRules = []mappedHandlerError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.comment_not_found"},
}

var productCommentErrorRules = []mappedHandlerError{
	{Target: service.ErrStarInvalid, Code: response.CodeBadRequest, Key: "error.star_invalid"},
	{Target: service.ErrCommentExists, Code: response.CodeConflict, Key: "error.comment_exists"},
}

var postErrorRules = []mappedHandlerError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.post_not_found"},
	{Target: service.ErrPostImageCount, Code: response.CodeBadRequest, Key: "error.post_image_count"},
	{Target: service.ErrPostAlreadyLiked, Code: response.CodeConflict, Key: "error.post_already_liked"},
}

func respondUserAuthError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(captchaErrorRules, userAuthErrorRules), response.CodeInternal, fallbackKey)
}

func respondUserError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, userErrorRules, response.CodeInternal, fallbackKey)
}

func respondAddressError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, fallbackKey)
}

func respondOrderError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, fallbackKey)
}

func respondCartError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, fallbackKey)
}

func respondFavoriteError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, favoriteErrorRules, response.CodeInternal, fallbackKey)
}

func respondMallError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, mallErrorRules, response.CodeInternal, fallbackKey)
}

func respondProductCommentError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(productCommentErrorRules, orderErrorRules), response.CodeInternal, fallbackKey)
}

func respondPostError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, postErrorRules, response.CodeInternal, fallbackKey)
}
