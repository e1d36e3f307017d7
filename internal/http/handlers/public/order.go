package public

import (
	"strings"

	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/i18n"
	"github.com/lingerie-shop/internal/repository"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader 下单幂等键请求头
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderItemRequest 下单项，价格由服务端计算
type OrderItemRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"max=32"`
	Color     string `json:"color" binding:"max=32"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

// CreateOrderRequest 下单请求
// 联系信息与枚举值的校验交给服务层，保证字段级错误与客户端一致
type CreateOrderRequest struct {
	ContactInfo    service.ContactInfo `json:"contactInfo"`
	DeliveryMethod string              `json:"deliveryMethod"`
	PaymentMethod  string              `json:"paymentMethod"`
	PromoCode      string              `json:"promoCode" binding:"max=64"`
	Items          []OrderItemRequest  `json:"items" binding:"dive"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
		})
	}
	result, err := h.OrderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		UserID:         uid,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
		Contact:        req.ContactInfo,
		DeliveryMethod: req.DeliveryMethod,
		PaymentMethod:  req.PaymentMethod,
		PromoCode:      req.PromoCode,
		Items:          items,
		Locale:         i18n.ResolveLocale(c),
	})
	if err != nil {
		respondServiceError(c, err, orderCreateRules, "error.order_create_failed")
		return
	}
	if result.Replayed {
		c.Header("Idempotent-Replayed", "true")
	}
	response.Success(c, result.Order)
}

// ListOrders 我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "pageSize", 20),
	)
	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(uid, orderID)
	if err != nil {
		respondServiceError(c, err, orderErrorRules, "error.internal")
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消未发货订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(c.Request.Context(), uid, orderID, i18n.ResolveLocale(c))
	if err != nil {
		respondServiceError(c, err, orderErrorRules, "error.internal")
		return
	}
	response.Success(c, order)
}
