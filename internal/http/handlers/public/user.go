package public

import (
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 资料更新请求，未提供的字段保持不变
type UpdateProfileRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,mobile"`
	Sex   *string `json:"sex" binding:"omitempty,sex"`
}

// GetUser 获取用户详情
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.UserService.GetDetail(userID)
	if err != nil {
		respondUserError(c, err, "error.query_failed")
		return
	}
	response.Success(c, detail)
}

// GetUserPosts 获取用户已发布的帖子
func (h *Handler) GetUserPosts(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.UserService.GetDetail(userID); err != nil {
		respondUserError(c, err, "error.query_failed")
		return
	}
	posts, err := h.PostService.ListByUser(userID)
	if err != nil {
		respondPostError(c, err, "error.query_failed")
		return
	}
	response.Success(c, posts)
}

// GetUserFans 获取用户粉丝列表
func (h *Handler) GetUserFans(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fans, err := h.UserService.ListFans(userID)
	if err != nil {
		respondUserError(c, err, "error.query_failed")
		return
	}
	response.Success(c, fans)
}

// GetUserSubscriptions 获取用户关注列表
func (h *Handler) GetUserSubscriptions(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	users, err := h.UserService.ListSubscriptions(userID)
	if err != nil {
		respondUserError(c, err, "error.query_failed")
		return
	}
	response.Success(c, users)
}

// GetMe 获取当前用户资料
func (h *Handler) GetMe(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	detail, err := h.UserService.GetDetail(uid)
	if err != nil {
		respondUserError(c, err, "error.query_failed")
		return
	}
	response.Success(c, detail)
}

// UpdateMyProfile 更新当前用户资料
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	detail, err := h.UserService.UpdateProfile(c.Request.Context(), uid, service.UpdateProfileInput{
		Email: req.Email,
		Phone: req.Phone,
		Sex:   req.Sex,
	})
	if err != nil {
		respondUserError(c, err, "error.save_failed")
		return
	}
	response.Success(c, detail)
}

// UploadMyIcon 上传头像
func (h *Handler) UploadMyIcon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("icon")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.empty_upload", nil)
		return
	}
	detail, err := h.UserService.UploadIcon(c.Request.Context(), uid, file)
	if err != nil {
		respondUserError(c, err, "error.upload_failed")
		return
	}
	response.Success(c, detail)
}

// DeleteMe 注销当前账号
func (h *Handler) DeleteMe(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserService.DeleteAccount(c.Request.Context(), uid); err != nil {
		respondUserError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// FollowUser 关注用户
func (h *Handler) FollowUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.UserService.Follow(uid, targetID); err != nil {
		respondUserError(c, err, "error.save_failed")
		return
	}
	response.Success(c, gin.H{"following": true})
}

// UnfollowUser 取消关注
func (h *Handler) UnfollowUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.UserService.Unfollow(uid, targetID); err != nil {
		respondUserError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"following": false})
}
