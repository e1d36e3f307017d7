package admin

import (
	"strings"

	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/repository"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// PromoCodeRequest 创建/更新优惠码请求
type PromoCodeRequest struct {
	Code         string       `json:"code" binding:"required,max=64"`
	Type         string       `json:"type" binding:"required,oneof=fixed percent"`
	Value        models.Money `json:"value"`
	MinAmount    models.Money `json:"minAmount"`
	MaxDiscount  models.Money `json:"maxDiscount"`
	UsageLimit   int          `json:"usageLimit" binding:"gte=0"`
	PerUserLimit int          `json:"perUserLimit" binding:"gte=0"`
	StartsAt     string       `json:"startsAt"`
	EndsAt       string       `json:"endsAt"`
	IsActive     *bool        `json:"isActive"`
}

func (req PromoCodeRequest) toInput(c *gin.Context) (service.PromoCodeInput, bool) {
	startsAt, err := parseTimeNullable(req.StartsAt)
	if err != nil {
		handlershared.RespondValidation(c, map[string]string{"startsAt": "validation.invalid"})
		return service.PromoCodeInput{}, false
	}
	endsAt, err := parseTimeNullable(req.EndsAt)
	if err != nil {
		handlershared.RespondValidation(c, map[string]string{"endsAt": "validation.invalid"})
		return service.PromoCodeInput{}, false
	}
	return service.PromoCodeInput{
		Code:         req.Code,
		Type:         req.Type,
		Value:        req.Value,
		MinAmount:    req.MinAmount,
		MaxDiscount:  req.MaxDiscount,
		UsageLimit:   req.UsageLimit,
		PerUserLimit: req.PerUserLimit,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		IsActive:     req.IsActive,
	}, true
}

// ListPromoCodes 优惠码列表
func (h *Handler) ListPromoCodes(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "pageSize", 20),
	)
	filter := repository.PromoCodeListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
	}
	if raw, ok := c.GetQuery("isActive"); ok {
		active := strings.EqualFold(strings.TrimSpace(raw), "true")
		filter.IsActive = &active
	}
	promos, total, err := h.PromoAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, promos, response.BuildPagination(page, pageSize, total))
}

// CreatePromoCode 创建优惠码
func (h *Handler) CreatePromoCode(c *gin.Context) {
	var req PromoCodeRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}
	promo, err := h.PromoAdminService.Create(input)
	if err != nil {
		respondServiceError(c, err, promoAdminRules)
		return
	}
	requestLog(c).Infow("admin_promo_code_created", "promo_code_id", promo.ID, "code", promo.Code)
	response.Success(c, promo)
}

// UpdatePromoCode 更新优惠码
func (h *Handler) UpdatePromoCode(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req PromoCodeRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}
	promo, err := h.PromoAdminService.Update(id, input)
	if err != nil {
		respondServiceError(c, err, promoAdminRules)
		return
	}
	response.Success(c, promo)
}

// DeletePromoCode 删除优惠码
func (h *Handler) DeletePromoCode(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.PromoAdminService.Delete(id); err != nil {
		respondServiceError(c, err, promoAdminRules)
		return
	}
	requestLog(c).Infow("admin_promo_code_deleted", "promo_code_id", id)
	response.Success(c, gin.H{"deleted": true})
}
