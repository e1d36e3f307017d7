package storefront

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"

	"github.com/lingerie-shop/internal/constants"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Step 结算步骤
type Step int

const (
	StepContactInfo Step = iota
	StepDeliveryMethod
	StepPaymentMethod
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepContactInfo:
		return "contact_info"
	case StepDeliveryMethod:
		return "delivery_method"
	case StepPaymentMethod:
		return "payment_method"
	case StepSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// CheckoutAPI 结算依赖的接口
type CheckoutAPI interface {
	Profile(ctx context.Context) (*Profile, error)
	CheckoutOptions(ctx context.Context) (*CheckoutOptions, error)
	CreateOrder(ctx context.Context, draft OrderDraft, idempotencyKey string) (*Order, error)
}

// CheckoutOption 结算可选项
type CheckoutOption func(*Checkout)

// WithOnConfirmed 下单成功回调，只触发一次
func WithOnConfirmed(fn func(*Order)) CheckoutOption {
	return func(c *Checkout) {
		c.onConfirmed = fn
	}
}

// WithDeliveryCosts 覆盖默认运费表（服务端选项拉取失败时使用）
func WithDeliveryCosts(costs map[string]decimal.Decimal) CheckoutOption {
	return func(c *Checkout) {
		for method, cost := range costs {
			c.deliveryCosts[method] = cost
		}
	}
}

// WithCheckoutLogger 注入日志
func WithCheckoutLogger(log *zap.SugaredLogger) CheckoutOption {
	return func(c *Checkout) {
		if log != nil {
			c.log = log
		}
	}
}

// Checkout 三步结算状态机
type Checkout struct {
	api   CheckoutAPI
	cart  *CartStore
	promo *PromoEvaluator
	log   *zap.SugaredLogger

	mu             sync.Mutex
	step           Step
	contact        ContactInfo
	delivery       string
	payment        string
	deliveryCosts  map[string]decimal.Decimal
	paymentMethods []string
	idempotencyKey string
	submitting     bool
	attempt        uint64
	cancel         context.CancelFunc
	confirmation   *Order
	err            error
	onConfirmed    func(*Order)
	confirmedOnce  sync.Once
}

// NewCheckout 创建结算流程
func NewCheckout(api CheckoutAPI, cart *CartStore, promo *PromoEvaluator, opts ...CheckoutOption) *Checkout {
	c := &Checkout{
		api:      api,
		cart:     cart,
		promo:    promo,
		log:      zap.NewNop().Sugar(),
		step:     StepContactInfo,
		delivery: constants.DeliveryMethodCourier,
		payment:  constants.PaymentMethodCreditCard,
		deliveryCosts: map[string]decimal.Decimal{
			constants.DeliveryMethodPostOffice:    decimal.NewFromInt(35),
			constants.DeliveryMethodCourier:       decimal.NewFromInt(35),
			constants.DeliveryMethodPickup:        decimal.Zero,
			constants.DeliveryMethodInternational: decimal.NewFromInt(120),
		},
		paymentMethods: append([]string(nil), constants.PaymentMethods...),
	}
	for _, opt := range opts {
		opt(c)
	}
	if promo != nil && cart != nil {
		promo.bindCart(cart)
	}
	return c
}

// LoadOptions 拉取服务端运费与支付方式，失败时保留默认值
func (c *Checkout) LoadOptions(ctx context.Context) error {
	options, err := c.api.CheckoutOptions(ctx)
	if err != nil {
		c.log.Warnw("checkout_options_fallback", "error", err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, option := range options.DeliveryMethods {
		c.deliveryCosts[option.Method] = option.Cost
	}
	if len(options.PaymentMethods) > 0 {
		c.paymentMethods = append([]string(nil), options.PaymentMethods...)
	}
	return nil
}

// Prefill 用用户资料填充联系信息草稿中的空字段，资料本身不会被修改
func (c *Checkout) Prefill(ctx context.Context) error {
	profile, err := c.api.Profile(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fill := func(dst *string, value string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = value
		}
	}
	fill(&c.contact.FirstName, profile.FirstName)
	fill(&c.contact.LastName, profile.LastName)
	fill(&c.contact.Phone, profile.Phone)
	fill(&c.contact.Email, profile.Email)
	return nil
}

func (c *Checkout) SetContact(contact ContactInfo) {
	c.mu.Lock()
	c.contact = contact
	c.mu.Unlock()
}

func (c *Checkout) Contact() ContactInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contact
}

// SetDeliveryMethod 设置配送方式
func (c *Checkout) SetDeliveryMethod(method string) error {
	method = strings.TrimSpace(method)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.deliveryCosts[method]; !ok || !containsMethod(constants.DeliveryMethods, method) {
		return ErrInvalidMethod
	}
	c.delivery = method
	return nil
}

// SetPaymentMethod 设置支付方式
func (c *Checkout) SetPaymentMethod(method string) error {
	method = strings.TrimSpace(method)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !containsMethod(c.paymentMethods, method) {
		return ErrInvalidMethod
	}
	c.payment = method
	return nil
}

func (c *Checkout) DeliveryMethod() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delivery
}

func (c *Checkout) PaymentMethod() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payment
}

func (c *Checkout) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Confirmation 下单成功后的订单
func (c *Checkout) Confirmation() *Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmation
}

// Err 最近一次提交失败的错误
func (c *Checkout) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Submitting 是否有提交进行中
func (c *Checkout) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Summary 基于购物车与优惠码实时计算金额
func (c *Checkout) Summary() OrderSummary {
	c.mu.Lock()
	delivery := c.deliveryCosts[c.delivery]
	c.mu.Unlock()

	items := c.cart.ItemsWorth()
	discount := decimal.Zero
	stale := false
	if c.promo != nil {
		if stale = c.promo.Stale(); !stale {
			discount = c.promo.Discount()
		}
	}
	if discount.GreaterThan(items) {
		discount = items
	}
	total := items.Add(delivery).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return OrderSummary{
		ItemsWorth:   items.Round(2),
		DeliveryCost: delivery.Round(2),
		Discount:     discount.Round(2),
		Total:        total.Round(2),
		PromoStale:   stale,
	}
}

// Next 前进一步；在支付方式步骤时提交订单
func (c *Checkout) Next(ctx context.Context) error {
	c.mu.Lock()
	switch c.step {
	case StepContactInfo, StepDeliveryMethod:
		if c.submitting {
			c.mu.Unlock()
			return ErrRequestInFlight
		}
		c.step++
		c.mu.Unlock()
		return nil
	case StepPaymentMethod:
		c.mu.Unlock()
		_, err := c.submit(ctx)
		return err
	default:
		c.mu.Unlock()
		return nil
	}
}

// Back 后退一步；在联系信息和已提交步骤时不动
func (c *Checkout) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return
	}
	if c.step == StepDeliveryMethod || c.step == StepPaymentMethod {
		c.step--
	}
}

// submit 校验并提交订单，同一时刻只允许一个提交
func (c *Checkout) submit(ctx context.Context) (*Order, error) {
	if order, done, err := c.submitState(); done || err != nil {
		return order, err
	}
	if c.promo != nil {
		if err := c.promo.Refresh(ctx); err != nil {
			c.mu.Lock()
			c.err = err
			c.mu.Unlock()
			return nil, err
		}
	}

	c.mu.Lock()
	if c.step == StepSubmitted || c.submitting {
		c.mu.Unlock()
		order, _, err := c.submitState()
		return order, err
	}
	draft, err := c.buildDraftLocked()
	if err != nil {
		c.err = err
		c.mu.Unlock()
		return nil, err
	}
	if c.idempotencyKey == "" {
		c.idempotencyKey = uuid.NewString()
	}
	key := c.idempotencyKey
	submitCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.attempt++
	attempt := c.attempt
	c.submitting = true
	c.err = nil
	c.mu.Unlock()

	order, err := c.api.CreateOrder(submitCtx, draft, key)
	cancel()

	c.mu.Lock()
	if attempt != c.attempt {
		// 已放弃，丢弃结果
		c.mu.Unlock()
		return nil, context.Canceled
	}
	c.submitting = false
	c.cancel = nil
	if err != nil {
		c.err = err
		c.mu.Unlock()
		c.log.Warnw("checkout_submit_failed", "error", err, "items", len(draft.Items))
		return nil, err
	}
	// 先进入已提交状态，之后的 Next 不会再发起下单
	c.step = StepSubmitted
	c.confirmation = order
	c.idempotencyKey = ""
	hook := c.onConfirmed
	c.mu.Unlock()

	// 服务端在同一事务中已清空购物车，这里同步本地与服务端状态
	if clearErr := c.cart.Clear(ctx); clearErr != nil {
		c.log.Warnw("checkout_cart_clear_failed", "order_no", order.OrderNo, "error", clearErr)
		c.cart.discardLocal()
	}
	if c.promo != nil {
		c.promo.Clear()
	}

	c.confirmedOnce.Do(func() {
		if hook != nil {
			hook(order)
		}
	})
	c.log.Infow("checkout_order_confirmed", "order_no", order.OrderNo, "total", order.Total.StringFixed(2))
	return order, nil
}

// submitState 已提交时返回订单，提交进行中时返回 ErrRequestInFlight
func (c *Checkout) submitState() (*Order, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepSubmitted {
		return c.confirmation, true, nil
	}
	if c.submitting {
		return nil, false, ErrRequestInFlight
	}
	return nil, false, nil
}

// Abandon 取消进行中的提交并丢弃其结果
func (c *Checkout) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.submitting {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.attempt++
	c.submitting = false
}

func (c *Checkout) buildDraftLocked() (OrderDraft, error) {
	contact := ContactInfo{
		FirstName: strings.TrimSpace(c.contact.FirstName),
		LastName:  strings.TrimSpace(c.contact.LastName),
		Phone:     strings.TrimSpace(c.contact.Phone),
		Email:     strings.TrimSpace(c.contact.Email),
	}
	if err := validateContact(contact); err != nil {
		return OrderDraft{}, err
	}
	lines := c.cart.Lines()
	if len(lines) == 0 {
		return OrderDraft{}, ErrEmptyCart
	}
	if _, ok := c.deliveryCosts[c.delivery]; !ok || !containsMethod(constants.DeliveryMethods, c.delivery) {
		return OrderDraft{}, ErrInvalidMethod
	}
	if !containsMethod(c.paymentMethods, c.payment) {
		return OrderDraft{}, ErrInvalidMethod
	}

	items := make([]OrderDraftLine, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderDraftLine{
			ProductID: line.ProductID,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
		})
	}
	draft := OrderDraft{
		ContactInfo:    contact,
		DeliveryMethod: c.delivery,
		PaymentMethod:  c.payment,
		Items:          items,
	}
	if c.promo != nil && !c.promo.Stale() {
		draft.PromoCode = c.promo.Code()
	}
	return draft, nil
}

func validateContact(contact ContactInfo) error {
	fields := make(map[string]string)
	if contact.FirstName == "" {
		fields["firstName"] = "validation.required"
	}
	if contact.LastName == "" {
		fields["lastName"] = "validation.required"
	}
	if contact.Phone == "" {
		fields["phone"] = "validation.required"
	}
	if contact.Email == "" {
		fields["email"] = "validation.required"
	} else if _, err := mail.ParseAddress(contact.Email); err != nil {
		fields["email"] = "validation.email"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func containsMethod(methods []string, target string) bool {
	for _, method := range methods {
		if method == target {
			return true
		}
	}
	return false
}

// IsRetryable 提交失败后是否可以原样重试
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer) || errors.Is(err, ErrRateLimited)
}
