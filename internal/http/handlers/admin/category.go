package admin

import (
	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 创建分类请求
type CategoryRequest struct {
	Slug      string `json:"slug" binding:"required,max=120"`
	Name      string `json:"name" binding:"required,max=120"`
	SortOrder int    `json:"sortOrder"`
}

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	category, err := h.CategoryService.Create(service.CreateCategoryInput{
		Slug:      req.Slug,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondServiceError(c, err, categoryAdminRules)
		return
	}
	response.Success(c, category)
}
