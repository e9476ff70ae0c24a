package service

import (
	"errors"
	"fmt"
)

// 资源不存在
var (
	ErrNotFound        = errors.New("not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSurfaceNotFound = errors.New("surface image not found")
)

// 认证与授权
var (
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrForbidden        = errors.New("forbidden")
)

// 唯一性冲突
var (
	ErrUsernameExists     = errors.New("username already exists")
	ErrAlreadyFollowing   = errors.New("already following")
	ErrPostAlreadyLiked   = errors.New("post already liked")
	ErrCommentExists      = errors.New("order already commented")
	ErrCategoryExists     = errors.New("category already exists")
	ErrCategoryInUse      = errors.New("category still has products")
	ErrAddressInUse       = errors.New("address is referenced by orders")
	ErrFavoriteExists     = errors.New("favorite already exists")
	ErrVariantConflict    = errors.New("variant name or order conflict")
	ErrImageOrderConflict = errors.New("image order number conflict")
	ErrOrderDuplicate     = errors.New("duplicate order")
)

// 参数校验
var (
	ErrValidation         = errors.New("validation failed")
	ErrOrderStatusInvalid = errors.New("order status transition not allowed")
	ErrStarInvalid        = errors.New("star must be between 1 and 5 in steps of 0.5")
	ErrPostImageCount     = errors.New("post image count out of range")
	ErrEmptyUpload        = errors.New("empty upload")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrWeakPassword       = errors.New("password does not satisfy policy")
	ErrProductInactive    = errors.New("product is not active")
	ErrSurfaceRequired    = errors.New("product needs a surface image to be active")
	ErrProfileEmpty       = errors.New("profile update is empty")
	ErrUploadInvalid      = errors.New("upload rejected")
)

// 验证码
var (
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s failed rule %s", e.Field, e.Rule)
}

// Is 使 errors.Is(err, ErrValidation) 成立
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, rule string) error {
	return &ValidationError{Field: field, Rule: rule}
}

// uploadError 上传校验失败，携带文案 key 与参数
type uploadError struct {
	key  string
	args []interface{}
}

func (e uploadError) Error() string {
	return e.key
}

func (e uploadError) Is(target error) bool {
	return target == ErrUploadInvalid
}

func (e uploadError) Key() string {
	return e.key
}

func (e uploadError) Args() []interface{} {
	return e.args
}
