package public

import (
	"errors"
	"strings"

	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CartAddRequest 加购请求，quantity 为增量，可为负数
type CartAddRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Size      string `json:"size" binding:"max=32"`
	Color     string `json:"color" binding:"max=32"`
}

// ApplyPromoRequest 应用优惠码请求
type ApplyPromoRequest struct {
	PromoCode string `json:"promoCode" binding:"required,max=64"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	lines, err := h.CartService.List(c.Request.Context(), uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, lines)
}

// AddCartItem 按增量修改购物车行，返回完整购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartAddRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	lines, err := h.CartService.Add(c.Request.Context(), uid, req.ProductID, req.Quantity, service.CartVariant{
		Size:  req.Size,
		Color: req.Color,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, lines)
}

// RemoveCartItem 删除购物车行；未指定规格时删除该商品全部规格
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "productId")
	if !ok {
		return
	}
	var variant *service.CartVariant
	size, hasSize := c.GetQuery("size")
	color, hasColor := c.GetQuery("color")
	if hasSize || hasColor {
		variant = &service.CartVariant{Size: strings.TrimSpace(size), Color: strings.TrimSpace(color)}
	}
	lines, err := h.CartService.Remove(c.Request.Context(), uid, productID, variant)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, lines)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(c.Request.Context(), uid); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

// ApplyPromo 按当前购物车计算优惠金额
func (h *Handler) ApplyPromo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ApplyPromoRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	quote, err := h.PromoService.ApplyToCart(c.Request.Context(), h.CartService, uid, req.PromoCode)
	if err != nil {
		respondServiceError(c, err, handlershared.ConcatRules(promoErrorRules, cartErrorRules), "error.internal")
		return
	}
	response.Success(c, quote)
}

func respondCartError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCartQuantityInvalid) {
		handlershared.RespondValidation(c, map[string]string{"quantity": "error.quantity_invalid"})
		return
	}
	respondServiceError(c, err, cartMutationRules, "error.internal")
}
