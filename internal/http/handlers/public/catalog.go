package public

import (
	"strings"

	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicProductView 前台商品视图，附带折后价
type PublicProductView struct {
	models.Product
	SalePrice models.Money `json:"salePrice"`
	OnSale    bool         `json:"onSale"`
}

func toPublicProductView(product models.Product) PublicProductView {
	return PublicProductView{
		Product:   product,
		SalePrice: product.SalePrice(),
		OnSale:    product.DiscountPercent > 0,
	}
}

// GetProducts 商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "pageSize", 20),
	)
	categoryID := handlershared.QueryInt(c, "categoryId", 0)
	if categoryID < 0 {
		categoryID = 0
	}
	products, total, err := h.ProductService.ListPublic(service.PublicProductQuery{
		CategoryID: uint(categoryID),
		Search:     strings.TrimSpace(c.Query("query")),
		OnSale:     handlershared.QueryBool(c, "onSale"),
		IsNew:      handlershared.QueryBool(c, "isNew"),
		Bestseller: handlershared.QueryBool(c, "bestseller"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	items := make([]PublicProductView, 0, len(products))
	for _, product := range products {
		items = append(items, toPublicProductView(product))
	}
	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetPublic(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, productErrorRules, "error.internal")
		return
	}
	response.Success(c, toPublicProductView(*product))
}

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// GetCheckoutOptions 配送方式、运费与支付方式
func (h *Handler) GetCheckoutOptions(c *gin.Context) {
	response.Success(c, h.CheckoutOptions.Options())
}
