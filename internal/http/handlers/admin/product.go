package admin

import (
	"strings"

	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	CategoryID      uint         `json:"categoryId" binding:"required"`
	Slug            string       `json:"slug" binding:"required,max=120"`
	Name            string       `json:"name" binding:"required,max=200"`
	Description     string       `json:"description"`
	Price           models.Money `json:"price"`
	DiscountPercent int          `json:"discountPercent" binding:"gte=0,lte=100"`
	Images          []string     `json:"images"`
	Sizes           []string     `json:"sizes"`
	Colors          []string     `json:"colors"`
	Stock           int          `json:"stock" binding:"gte=0"`
	IsNew           bool         `json:"isNew"`
	IsBestseller    bool         `json:"isBestseller"`
	IsActive        *bool        `json:"isActive"`
	SortOrder       int          `json:"sortOrder"`
}

func (req ProductRequest) toInput() service.CreateProductInput {
	return service.CreateProductInput{
		CategoryID:      req.CategoryID,
		Slug:            req.Slug,
		Name:            req.Name,
		Description:     req.Description,
		PriceAmount:     req.Price.Decimal,
		DiscountPercent: req.DiscountPercent,
		Images:          req.Images,
		Sizes:           req.Sizes,
		Colors:          req.Colors,
		Stock:           req.Stock,
		IsNew:           req.IsNew,
		IsBestseller:    req.IsBestseller,
		IsActive:        req.IsActive,
		SortOrder:       req.SortOrder,
	}
}

// ListProducts 后台商品列表（含下架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "pageSize", 20),
	)
	categoryID := handlershared.QueryInt(c, "categoryId", 0)
	if categoryID < 0 {
		categoryID = 0
	}
	products, total, err := h.ProductService.ListAdmin(strings.TrimSpace(c.Query("query")), uint(categoryID), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetProduct 后台商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetAdminByID(id)
	if err != nil {
		respondServiceError(c, err, productAdminRules)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, productAdminRules)
		return
	}
	requestLog(c).Infow("admin_product_created", "product_id", product.ID, "slug", product.Slug)
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, productAdminRules)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondServiceError(c, err, productAdminRules)
		return
	}
	requestLog(c).Infow("admin_product_deleted", "product_id", id)
	response.Success(c, gin.H{"deleted": true})
}
