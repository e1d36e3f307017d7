package storefront

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PromoAPI 优惠码依赖的接口
type PromoAPI interface {
	ApplyPromo(ctx context.Context, code string) (*PromoQuote, error)
}

type cartVersioner interface {
	Version() uint64
}

// PromoEvaluator 持有当前生效的优惠码与绝对折扣金额
// 折扣只对报价时的购物车版本有效
type PromoEvaluator struct {
	api      PromoAPI
	log      *zap.SugaredLogger
	inFlight atomic.Bool

	mu       sync.RWMutex
	code     string
	discount decimal.Decimal
	err      error
	cart     cartVersioner
	quotedAt uint64
}

// NewPromoEvaluator 创建优惠码计算器
func NewPromoEvaluator(api PromoAPI, log *zap.SugaredLogger) *PromoEvaluator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PromoEvaluator{api: api, log: log, discount: decimal.Zero}
}

// Apply 向服务端报价优惠码；任何失败都会把折扣重置为 0
func (p *PromoEvaluator) Apply(ctx context.Context, code string) (decimal.Decimal, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		err := &ValidationError{Fields: map[string]string{"promoCode": "validation.required"}}
		p.reset(err)
		return decimal.Zero, err
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		return p.Discount(), ErrRequestInFlight
	}
	defer p.inFlight.Store(false)

	version := p.cartVersion()
	quote, err := p.api.ApplyPromo(ctx, code)
	if err != nil {
		err = classifyPromoError(err)
		if errors.Is(err, ErrPromoInvalid) {
			p.log.Debugw("promo_rejected", "code", code, "error", err)
		} else {
			p.log.Warnw("promo_apply_failed", "code", code, "error", err)
		}
		p.reset(err)
		return decimal.Zero, err
	}

	discount := quote.DiscountAmount
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	p.mu.Lock()
	p.code = quote.PromoCode
	if p.code == "" {
		p.code = strings.ToUpper(code)
	}
	p.discount = discount.Round(2)
	p.err = nil
	p.quotedAt = version
	p.mu.Unlock()
	return discount.Round(2), nil
}

// Refresh 购物车在报价后变化时按当前购物车重新报价，失败则折扣归零
func (p *PromoEvaluator) Refresh(ctx context.Context) error {
	p.mu.RLock()
	code, stale := p.code, p.staleLocked()
	p.mu.RUnlock()
	if !stale {
		return nil
	}
	p.log.Debugw("promo_requote", "code", code)
	_, err := p.Apply(ctx, code)
	return err
}

// Stale 已应用的折扣是否针对旧的购物车
func (p *PromoEvaluator) Stale() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.staleLocked()
}

// Clear 移除已应用的优惠码
func (p *PromoEvaluator) Clear() {
	p.reset(nil)
}

// Pending 是否有报价请求进行中
func (p *PromoEvaluator) Pending() bool {
	return p.inFlight.Load()
}

func (p *PromoEvaluator) Discount() decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.discount
}

func (p *PromoEvaluator) Code() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.code
}

func (p *PromoEvaluator) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// bindCart 关联购物车；已有报价视为针对当前购物车
func (p *PromoEvaluator) bindCart(cart cartVersioner) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cart == cart {
		return
	}
	p.cart = cart
	p.quotedAt = cart.Version()
}

func (p *PromoEvaluator) cartVersion() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cart == nil {
		return 0
	}
	return p.cart.Version()
}

func (p *PromoEvaluator) staleLocked() bool {
	return p.code != "" && p.cart != nil && p.cart.Version() != p.quotedAt
}

func (p *PromoEvaluator) reset(err error) {
	p.mu.Lock()
	p.code = ""
	p.discount = decimal.Zero
	p.err = err
	p.mu.Unlock()
}

// classifyPromoError 业务拒绝（400/404）归为无效优惠码，网络与服务端错误原样返回
func classifyPromoError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if _, ok := AsValidation(err); ok {
		return err
	}
	if errors.Is(apiErr.Err, ErrBadRequest) || errors.Is(apiErr.Err, ErrNotFound) {
		apiErr.Err = ErrPromoInvalid
	}
	return apiErr
}
