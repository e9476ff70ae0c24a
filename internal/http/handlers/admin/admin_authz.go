package admin

import (
	"errors"
	"net/url"
	"strings"

	"github.com/shoppingmall/internal/authz"
	"github.com/shoppingmall/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzSetUserRolesPayload struct {
	Roles []string `json:"roles"`
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	response.Success(c, roles)
}

// GetAuthzRolePolicies 获取角色的策略与继承关系
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := strings.TrimSpace(c.Param("role"))
	if decoded, err := url.PathUnescape(role); err == nil {
		role = decoded
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		if errors.Is(err, authz.ErrUnknownRole) {
			respondError(c, response.CodeNotFound, "error.role_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	response.Success(c, policies)
}

// GetUserRoles 获取用户的管理角色
func (h *Handler) GetUserRoles(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !h.ensureUserExists(c, userID) {
		return
	}
	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	response.Success(c, gin.H{"user_id": userID, "roles": roles})
}

// SetUserRoles 覆盖设置用户的管理角色，仅允许已存在的角色
func (h *Handler) SetUserRoles(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req authzSetUserRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !h.ensureUserExists(c, userID) {
		return
	}

	roles := make([]string, 0, len(req.Roles))
	for _, raw := range req.Roles {
		role, err := authz.NormalizeRole(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.role_invalid", nil)
			return
		}
		roles = append(roles, role)
	}

	if err := h.AuthzService.SetUserRoles(userID, roles); err != nil {
		if errors.Is(err, authz.ErrUnknownRole) {
			respondError(c, response.CodeBadRequest, "error.role_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.authz_update_failed", err)
		return
	}
	requestLog(c).Infow("admin_user_roles_updated", "operator_id", operatorID, "user_id", userID, "roles", roles)

	updated, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	response.Success(c, gin.H{"user_id": userID, "roles": updated})
}

func (h *Handler) ensureUserExists(c *gin.Context, userID uint) bool {
	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return false
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return false
	}
	return true
}
