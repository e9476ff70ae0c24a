package public

import (
	"errors"
	"strings"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Name           string                `json:"name" binding:"required,max=20"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Name           string                `json:"name" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserChangePasswordRequest 修改密码请求
type UserChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.CaptchaService.Verify(constants.CaptchaSceneRegister, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondUserAuthError(c, err, "error.register_failed")
		return
	}

	result, err := h.UserAuthService.Register(req.Name, req.Password)
	if err != nil {
		respondUserAuthError(c, err, "error.register_failed")
		return
	}

	response.Success(c, buildAuthPayload(result))
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordUserLogin(c, req.Name, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonBadRequest)
		respondBindError(c, err)
		return
	}

	if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.ToServicePayload()); captchaErr != nil {
		reason := constants.LoginLogFailReasonInternalError
		switch {
		case errors.Is(captchaErr, service.ErrCaptchaRequired):
			reason = constants.LoginLogFailReasonCaptchaRequired
		case errors.Is(captchaErr, service.ErrCaptchaInvalid):
			reason = constants.LoginLogFailReasonCaptchaInvalid
		}
		h.recordUserLogin(c, req.Name, 0, constants.LoginLogStatusFailed, reason)
		respondUserAuthError(c, captchaErr, "error.login_failed")
		return
	}

	result, err := h.UserAuthService.Login(req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			h.recordUserLogin(c, req.Name, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonUserNotFound)
		case errors.Is(err, service.ErrPasswordMismatch):
			h.recordUserLogin(c, req.Name, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidCredentials)
		default:
			h.recordUserLogin(c, req.Name, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError)
		}
		respondUserAuthError(c, err, "error.login_failed")
		return
	}

	h.recordUserLogin(c, result.User.Name, result.User.ID, constants.LoginLogStatusSuccess, "")
	response.Success(c, buildAuthPayload(result))
}

// UserLogout 注销当前用户的全部登录凭证
func (h *Handler) UserLogout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(uid); err != nil {
		respondUserAuthError(c, err, "error.logout_failed")
		return
	}
	response.Success(c, gin.H{"logged_out": true})
}

// ChangeUserPassword 登录态修改密码，成功后旧 Token 全部失效
func (h *Handler) ChangeUserPassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UserChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.UserAuthService.ChangePassword(uid, req.OldPassword, req.NewPassword); err != nil {
		respondUserAuthError(c, err, "error.save_failed")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

func buildAuthPayload(result *service.AuthResult) gin.H {
	return gin.H{
		"id":         result.User.ID,
		"name":       result.User.Name,
		"token":      result.Token,
		"expires_at": result.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *Handler) recordUserLogin(c *gin.Context, name string, userID uint, status, failReason string) {
	if h == nil || h.UserLoginLogService == nil {
		return
	}
	requestID := ""
	if c != nil {
		if rid, ok := c.Get("request_id"); ok {
			if value, ok := rid.(string); ok {
				requestID = strings.TrimSpace(value)
			}
		}
	}
	if err := h.UserLoginLogService.Record(service.RecordUserLoginInput{
		UserID:     userID,
		Name:       name,
		Status:     status,
		FailReason: failReason,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		RequestID:  requestID,
	}); err != nil {
		requestLog(c).Warnw("user_login_log_record_failed", "name", name, "error", err)
	}
}
