package admin

import (
	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SetUserRolesRequest 覆盖设置后台角色请求
type SetUserRolesRequest struct {
	Roles []string `json:"roles" binding:"required"`
}

// CreateRoleRequest 新建角色请求
type CreateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// GrantRolePolicyRequest 角色授权请求，object 为去掉 /api/v1 的路径
type GrantRolePolicyRequest struct {
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// ListRoles 角色列表
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// GetRolePolicies 角色策略
func (h *Handler) GetRolePolicies(c *gin.Context) {
	policies, err := h.AuthzService.GetRolePolicies(c.Param("role"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, policies)
}

// GetUserRoles 查询用户后台角色
func (h *Handler) GetUserRoles(c *gin.Context) {
	userID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// SetUserRoles 覆盖设置用户后台角色
func (h *Handler) SetUserRoles(c *gin.Context) {
	userID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req SetUserRolesRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.AuthzService.SetUserRoles(userID, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	adminID := c.GetUint("user_id")
	requestLog(c).Infow("admin_user_roles_updated", "user_id", userID, "roles", req.Roles, "admin_id", adminID)
	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// CreateRole 新建角色（已存在时直接返回）
func (h *Handler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	requestLog(c).Infow("admin_role_created", "role", role, "admin_id", c.GetUint("user_id"))
	response.Success(c, gin.H{"role": role})
}

// GrantRolePolicy 为角色增加一条策略
func (h *Handler) GrantRolePolicy(c *gin.Context) {
	role := c.Param("role")
	var req GrantRolePolicyRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.AuthzService.GrantRolePolicy(role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	requestLog(c).Infow("admin_role_policy_granted", "role", role, "object", req.Object, "action", req.Action, "admin_id", c.GetUint("user_id"))
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, policies)
}

// ReloadPolicy 重新加载策略
func (h *Handler) ReloadPolicy(c *gin.Context) {
	if err := h.AuthzService.ReloadPolicy(); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"reloaded": true})
}
