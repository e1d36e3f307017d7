package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/logger"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/queue"
	"github.com/lingerie-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxIdempotencyKeyLength = 64

// OrderTaskQueue 订单异步任务投递
type OrderTaskQueue interface {
	EnqueueOrderConfirmation(payload queue.OrderConfirmationPayload, opts ...asynq.Option) error
	EnqueueOrderCanceled(payload queue.OrderCanceledPayload, opts ...asynq.Option) error
}

// OrderService 订单服务
type OrderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	cartRepo       repository.CartRepository
	promoRepo      repository.PromoCodeRepository
	promoUsageRepo repository.PromoUsageRepository
	options        *CheckoutOptionsService
	productService *ProductService
	queueClient    OrderTaskQueue
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	promoRepo repository.PromoCodeRepository,
	promoUsageRepo repository.PromoUsageRepository,
	options *CheckoutOptionsService,
	productService *ProductService,
	queueClient OrderTaskQueue,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		cartRepo:       cartRepo,
		promoRepo:      promoRepo,
		promoUsageRepo: promoUsageRepo,
		options:        options,
		productService: productService,
		queueClient:    queueClient,
	}
}

// ContactInfo 下单联系信息
type ContactInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// CreateOrderItem 下单项，只接受商品、规格与数量，价格由服务端决定
type CreateOrderItem struct {
	ProductID uint
	Size      string
	Color     string
	Quantity  int
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID         uint
	IdempotencyKey string
	Contact        ContactInfo
	DeliveryMethod string
	PaymentMethod  string
	PromoCode      string
	Items          []CreateOrderItem
	Locale         string
}

// CreateOrderResult 创建订单结果，Replayed 表示命中幂等键返回的历史订单
type CreateOrderResult struct {
	Order    *models.Order
	Replayed bool
}

// CreateOrder 创建订单：服务端重新定价、扣库存、记录优惠码使用并清空购物车，全部在同一事务内完成
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if input.UserID == 0 {
		return nil, ErrUserNotFound
	}
	if err := s.validateCreateInput(&input); err != nil {
		return nil, err
	}
	items, err := mergeCreateOrderItems(input.Items)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}
	if replay, err := s.findReplay(input.UserID, key, items); err != nil || replay != nil {
		return replay, err
	}

	deliveryCost, err := s.options.DeliveryCost(input.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	touched := make([]uint, 0, len(items))
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		orderItems := make([]models.OrderItem, 0, len(items))
		itemsAmount := decimal.Zero

		for _, item := range items {
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return ErrProductNotFound
			}
			if !product.IsActive {
				return ErrProductNotAvailable
			}
			sizeOK, colorOK := product.AcceptsVariant(item.Size, item.Color)
			if !sizeOK {
				return ErrSizeInvalid
			}
			if !colorOK {
				return ErrColorInvalid
			}
			affected, err := productRepo.DecrementStock(product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
			touched = append(touched, product.ID)

			unitPrice := product.SalePrice()
			lineTotal := unitPrice.Times(item.Quantity)
			itemsAmount = itemsAmount.Add(lineTotal.Decimal)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Size:        item.Size,
				Color:       item.Color,
				UnitPrice:   unitPrice,
				Quantity:    item.Quantity,
				TotalPrice:  lineTotal,
			})
		}

		subtotal := models.NewMoneyFromDecimal(itemsAmount)
		discount := models.Money{}
		var promo *models.PromoCode
		if code := NormalizePromoCode(input.PromoCode); code != "" {
			promoRepo := s.promoRepo.WithTx(tx)
			evaluator := NewPromoService(promoRepo, s.promoUsageRepo.WithTx(tx))
			var evalErr error
			discount, promo, evalErr = evaluator.Evaluate(subtotal, code, input.UserID)
			if evalErr != nil {
				return evalErr
			}
			affected, err := promoRepo.IncrementUsedCount(promo.ID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrPromoUsageLimit
			}
		}

		total := itemsAmount.Add(deliveryCost.Decimal).Sub(discount.Decimal)
		if total.IsNegative() {
			total = decimal.Zero
		}

		order = &models.Order{
			OrderNo:        generateOrderNo(),
			UserID:         input.UserID,
			IdempotencyKey: key,
			Status:         constants.OrderStatusCreated,
			FirstName:      input.Contact.FirstName,
			LastName:       input.Contact.LastName,
			Phone:          input.Contact.Phone,
			Email:          input.Contact.Email,
			DeliveryMethod: input.DeliveryMethod,
			PaymentMethod:  input.PaymentMethod,
			Currency:       s.options.Currency(),
			ItemsAmount:    subtotal,
			DeliveryCost:   deliveryCost,
			DiscountAmount: discount,
			TotalAmount:    models.NewMoneyFromDecimal(total),
		}
		if promo != nil {
			order.PromoCode = promo.Code
			order.PromoCodeID = &promo.ID
		}
		if err := s.orderRepo.WithTx(tx).Create(order, orderItems); err != nil {
			return err
		}
		if promo != nil {
			usage := &models.PromoUsage{
				PromoCodeID:    promo.ID,
				UserID:         input.UserID,
				OrderID:        order.ID,
				DiscountAmount: discount,
			}
			if err := s.promoUsageRepo.WithTx(tx).Create(usage); err != nil {
				return err
			}
		}
		return s.cartRepo.WithTx(tx).ClearByUser(input.UserID)
	})
	if err != nil {
		if isOrderDomainError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// 并发重复提交同一幂等键时唯一索引冲突，返回先提交的订单
		if replay, lookupErr := s.findReplay(input.UserID, key, items); lookupErr == nil && replay != nil {
			return replay, nil
		}
		logger.Errorw("order_create_failed", "user_id", input.UserID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}

	if s.productService != nil {
		s.productService.InvalidateProducts(touched...)
	}
	s.enqueueConfirmation(order, input.Locale)
	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"total", order.TotalAmount.String(),
	)
	return &CreateOrderResult{Order: order}, nil
}

// ListOrders 获取用户订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// GetOrder 获取用户订单详情
func (s *OrderService) GetOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderAdmin 后台获取订单详情
func (s *OrderService) GetOrderAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder 用户取消订单（未发货前），归还库存与优惠码次数
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint, locale string) (*models.Order, error) {
	order, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, order, locale)
}

// UpdateStatus 后台推进订单状态
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	order, err := s.GetOrderAdmin(orderID)
	if err != nil {
		return nil, err
	}
	target := strings.ToLower(strings.TrimSpace(status))
	if !isOrderTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}
	if target == constants.OrderStatusCanceled {
		return s.cancel(ctx, order, "")
	}

	updates := map[string]interface{}{}
	if target == constants.OrderStatusConfirmed {
		updates["confirmed_at"] = time.Now()
	}
	affected, err := s.orderRepo.WithTx(models.DB.WithContext(ctx)).TransitionStatus(order.ID, order.Status, target, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderStatusInvalid
	}
	return s.GetOrderAdmin(orderID)
}

// ConfirmOrder 下单确认：created -> confirmed，重复执行无副作用
func (s *OrderService) ConfirmOrder(orderID uint) (*models.Order, bool, error) {
	affected, err := s.orderRepo.TransitionStatus(orderID, constants.OrderStatusCreated, constants.OrderStatusConfirmed, map[string]interface{}{
		"confirmed_at": time.Now(),
	})
	if err != nil {
		return nil, false, err
	}
	order, err := s.GetOrderAdmin(orderID)
	if err != nil {
		return nil, false, err
	}
	return order, affected > 0, nil
}

func (s *OrderService) cancel(ctx context.Context, order *models.Order, locale string) (*models.Order, error) {
	if !isOrderTransitionAllowed(order.Status, constants.OrderStatusCanceled) {
		return nil, ErrOrderCancelNotAllowed
	}
	now := time.Now()
	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).TransitionStatus(order.ID, order.Status, constants.OrderStatusCanceled, map[string]interface{}{
			"canceled_at": now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderCancelNotAllowed
		}
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			if _, err := productRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		usageRepo := s.promoUsageRepo.WithTx(tx)
		usages, err := usageRepo.ListByOrderID(order.ID)
		if err != nil {
			return err
		}
		promoRepo := s.promoRepo.WithTx(tx)
		for _, usage := range usages {
			if err := promoRepo.DecrementUsedCount(usage.PromoCodeID); err != nil {
				return err
			}
		}
		return usageRepo.DeleteByOrderID(order.ID)
	})
	if err != nil {
		return nil, err
	}

	if s.productService != nil {
		ids := make([]uint, 0, len(order.Items))
		for _, item := range order.Items {
			ids = append(ids, item.ProductID)
		}
		s.productService.InvalidateProducts(ids...)
	}
	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderCanceled(queue.OrderCanceledPayload{OrderID: order.ID, Locale: locale}); err != nil {
			logger.Errorw("order_enqueue_canceled_failed", "order_id", order.ID, "error", err)
		}
	}
	order.Status = constants.OrderStatusCanceled
	order.CanceledAt = &now
	return order, nil
}

func (s *OrderService) enqueueConfirmation(order *models.Order, locale string) {
	if s.queueClient == nil || order == nil {
		return
	}
	payload := queue.OrderConfirmationPayload{OrderID: order.ID, Locale: locale}
	if err := s.queueClient.EnqueueOrderConfirmation(payload); err != nil {
		logger.Errorw("order_enqueue_confirmation_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}

func (s *OrderService) validateCreateInput(input *CreateOrderInput) error {
	input.Contact = ContactInfo{
		FirstName: strings.TrimSpace(input.Contact.FirstName),
		LastName:  strings.TrimSpace(input.Contact.LastName),
		Phone:     strings.TrimSpace(input.Contact.Phone),
		Email:     strings.ToLower(strings.TrimSpace(input.Contact.Email)),
	}
	input.DeliveryMethod = strings.TrimSpace(input.DeliveryMethod)
	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)

	validation := &ValidationError{}
	if input.Contact.FirstName == "" {
		validation.Add("firstName", "validation.required")
	}
	if input.Contact.LastName == "" {
		validation.Add("lastName", "validation.required")
	}
	if input.Contact.Phone == "" {
		validation.Add("phone", "validation.required")
	}
	if input.Contact.Email == "" {
		validation.Add("email", "validation.required")
	} else if _, err := mail.ParseAddress(input.Contact.Email); err != nil {
		validation.Add("email", "validation.email")
	}
	if _, err := s.options.DeliveryCost(input.DeliveryMethod); err != nil {
		validation.Add("deliveryMethod", "validation.oneof")
	}
	if err := s.options.ValidatePaymentMethod(input.PaymentMethod); err != nil {
		validation.Add("paymentMethod", "validation.oneof")
	}
	if len(strings.TrimSpace(input.IdempotencyKey)) > maxIdempotencyKeyLength {
		validation.Add("idempotencyKey", "validation.max")
	}
	if err := validation.OrNil(); err != nil {
		return err
	}
	if len(input.Items) == 0 {
		return ErrCartEmpty
	}
	return nil
}

// findReplay 命中幂等键时返回历史订单；下单内容不一致视为冲突
func (s *OrderService) findReplay(userID uint, key string, items []CreateOrderItem) (*CreateOrderResult, error) {
	existing, err := s.orderRepo.GetByIdempotencyKey(userID, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	if !sameOrderItems(existing.Items, items) {
		return nil, ErrIdempotencyConflict
	}
	logger.Infow("order_idempotent_replay", "order_id", existing.ID, "user_id", userID)
	return &CreateOrderResult{Order: existing, Replayed: true}, nil
}

func sameOrderItems(existing []models.OrderItem, items []CreateOrderItem) bool {
	if len(existing) != len(items) {
		return false
	}
	left := make([]string, 0, len(existing))
	for _, item := range existing {
		left = append(left, fmt.Sprintf("%s#%d", buildOrderItemKey(item.ProductID, item.Size, item.Color), item.Quantity))
	}
	right := make([]string, 0, len(items))
	for _, item := range items {
		right = append(right, fmt.Sprintf("%s#%d", buildOrderItemKey(item.ProductID, item.Size, item.Color), item.Quantity))
	}
	sort.Strings(left)
	sort.Strings(right)
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

func isOrderDomainError(err error) bool {
	var validation *ValidationError
	if errors.As(err, &validation) || IsPromoRejection(err) {
		return true
	}
	for _, target := range []error{
		ErrProductNotFound,
		ErrProductNotAvailable,
		ErrSizeInvalid,
		ErrColorInvalid,
		ErrInsufficientStock,
		ErrCartEmpty,
		ErrDeliveryMethodInvalid,
		ErrPaymentMethodInvalid,
		ErrIdempotencyConflict,
		ErrOrderCancelNotAllowed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isOrderTransitionAllowed(from, to string) bool {
	switch from {
	case constants.OrderStatusCreated:
		return to == constants.OrderStatusConfirmed || to == constants.OrderStatusCanceled
	case constants.OrderStatusConfirmed:
		return to == constants.OrderStatusShipped || to == constants.OrderStatusCanceled
	case constants.OrderStatusShipped:
		return to == constants.OrderStatusCompleted
	default:
		return false
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("LS%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

func buildOrderItemKey(productID uint, size, color string) string {
	return fmt.Sprintf("%d|%s|%s", productID, size, color)
}

// mergeCreateOrderItems 合并同一商品同一规格的下单项
func mergeCreateOrderItems(items []CreateOrderItem) ([]CreateOrderItem, error) {
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}
	merged := make([]CreateOrderItem, 0, len(items))
	indexMap := make(map[string]int)
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, &ValidationError{Fields: map[string]string{"items": "validation.gte"}}
		}
		item.Size = strings.TrimSpace(item.Size)
		item.Color = strings.TrimSpace(item.Color)
		key := buildOrderItemKey(item.ProductID, item.Size, item.Color)
		if idx, ok := indexMap[key]; ok {
			merged[idx].Quantity += item.Quantity
			continue
		}
		indexMap[key] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}
