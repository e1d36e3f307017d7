package public

import (
	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// FavoriteRequest 收藏请求
type FavoriteRequest struct {
	ProductID uint `json:"productId" binding:"required"`
}

// GetFavorites 收藏列表
func (h *Handler) GetFavorites(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.FavoriteService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, items)
}

// AddFavorite 收藏商品（幂等）
func (h *Handler) AddFavorite(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req FavoriteRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	items, err := h.FavoriteService.Add(uid, req.ProductID)
	if err != nil {
		respondServiceError(c, err, favoriteRules, "error.internal")
		return
	}
	response.Success(c, items)
}

// RemoveFavorite 取消收藏（幂等）
func (h *Handler) RemoveFavorite(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "productId")
	if !ok {
		return
	}
	items, err := h.FavoriteService.Remove(uid, productID)
	if err != nil {
		respondServiceError(c, err, favoriteRules, "error.internal")
		return
	}
	response.Success(c, items)
}
