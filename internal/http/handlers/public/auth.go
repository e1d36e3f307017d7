package public

import (
	"time"

	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/i18n"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"max=32"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 修改资料请求
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	Locale    *string `json:"locale" binding:"omitempty,max=20"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// AuthResponse 登录/注册响应
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Register(service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Locale:    i18n.ResolveLocale(c),
	})
	if err != nil {
		respondServiceError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, AuthResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, AuthResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// GetCurrentUser 当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUser(uid)
	if err != nil {
		respondServiceError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, user)
}

// GetProfile 下单预填资料，只读
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	profile, err := h.UserAuthService.GetProfile(uid)
	if err != nil {
		respondServiceError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 修改个人资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	user, err := h.UserAuthService.UpdateProfile(uid, service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Locale:    req.Locale,
	})
	if err != nil {
		respondServiceError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, user)
}

// ChangePassword 修改密码，旧 token 全部失效
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.UserAuthService.ChangePassword(uid, req.OldPassword, req.NewPassword); err != nil {
		rules := handlershared.ConcatRules([]rule{
			{Target: service.ErrInvalidCredentials, Code: response.CodeBadRequest, Key: "error.password_incorrect"},
		}, authErrorRules)
		respondServiceError(c, err, rules, "error.internal")
		return
	}
	response.Success(c, gin.H{"changed": true})
}
