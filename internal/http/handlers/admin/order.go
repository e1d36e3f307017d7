package admin

import (
	"strings"

	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 修改订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed shipped completed canceled"`
}

// ListOrders 后台订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "pageSize", 20),
	)
	userID := handlershared.QueryInt(c, "userId", 0)
	if userID < 0 {
		userID = 0
	}
	createdFrom, err := parseTimeNullable(c.Query("createdFrom"))
	if err != nil {
		handlershared.RespondValidation(c, map[string]string{"createdFrom": "validation.invalid"})
		return
	}
	createdTo, err := parseTimeNullable(c.Query("createdTo"))
	if err != nil {
		handlershared.RespondValidation(c, map[string]string{"createdTo": "validation.invalid"})
		return
	}
	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      uint(userID),
		Status:      strings.TrimSpace(c.Query("status")),
		OrderNo:     strings.TrimSpace(c.Query("orderNo")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 后台订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderAdmin(id)
	if err != nil {
		respondServiceError(c, err, orderAdminRules)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	adminID := c.GetUint("user_id")
	order, err := h.OrderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err, orderAdminRules)
		return
	}
	requestLog(c).Infow("admin_order_status_updated", "order_id", id, "status", order.Status, "admin_id", adminID)
	response.Success(c, order)
}
