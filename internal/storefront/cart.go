package storefront

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartAPI 购物车依赖的接口
type CartAPI interface {
	GetCart(ctx context.Context) ([]CartLine, error)
	AddToCart(ctx context.Context, productID uint, delta int, variant Variant) ([]CartLine, error)
	RemoveFromCart(ctx context.Context, productID uint, variant *Variant) ([]CartLine, error)
	ClearCart(ctx context.Context) error
}

// CartStore 会话级购物车状态
type CartStore struct {
	api   CartAPI
	log   *zap.SugaredLogger
	state *syncedList[CartLine]
}

// NewCartStore 创建购物车状态
func NewCartStore(api CartAPI, log *zap.SugaredLogger) *CartStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CartStore{api: api, log: log, state: newSyncedList[CartLine]()}
}

// Fetch 用服务端购物车整体替换本地状态，失败时本地清空并保留错误
func (s *CartStore) Fetch(ctx context.Context) error {
	err := s.state.fetch(ctx, s.api.GetCart)
	if err != nil {
		s.log.Warnw("cart_fetch_failed", "error", err)
	}
	return err
}

// Add 按增量修改一行，结果数量小于 1 时在本地拒绝
func (s *CartStore) Add(ctx context.Context, productID uint, delta int, variant Variant) error {
	guard := func(lines []CartLine) error {
		current := 0
		for _, line := range lines {
			if line.ProductID == productID && line.Variant() == variant {
				current = line.Quantity
				break
			}
		}
		if current+delta < 1 {
			return ErrQuantityBelowOne
		}
		return nil
	}
	err := s.state.mutate(ctx, guard, func(ctx context.Context) ([]CartLine, error) {
		return s.api.AddToCart(ctx, productID, delta, variant)
	})
	if err != nil && !errors.Is(err, ErrQuantityBelowOne) {
		s.log.Warnw("cart_mutation_failed", "op", "add", "product_id", productID, "delta", delta, "error", err)
	}
	return err
}

// Remove 删除一行，variant 为 nil 时删除该商品全部规格；重复删除等价于删除一次
func (s *CartStore) Remove(ctx context.Context, productID uint, variant *Variant) error {
	err := s.state.mutate(ctx, nil, func(ctx context.Context) ([]CartLine, error) {
		return s.api.RemoveFromCart(ctx, productID, variant)
	})
	if err != nil {
		s.log.Warnw("cart_mutation_failed", "op", "remove", "product_id", productID, "error", err)
	}
	return err
}

// Clear 清空购物车（服务端与本地）
func (s *CartStore) Clear(ctx context.Context) error {
	err := s.state.mutate(ctx, nil, func(ctx context.Context) ([]CartLine, error) {
		if err := s.api.ClearCart(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		s.log.Warnw("cart_mutation_failed", "op", "clear", "error", err)
	}
	return err
}

// discardLocal 只清空本地状态
func (s *CartStore) discardLocal() {
	s.state.set(nil, nil)
}

// Lines 当前购物车行快照
func (s *CartStore) Lines() []CartLine {
	return s.state.snapshot()
}

// ItemsWorth 商品总额
func (s *CartStore) ItemsWorth() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.state.snapshot() {
		total = total.Add(line.Worth())
	}
	return total.Round(2)
}

// Count 商品件数
func (s *CartStore) Count() int {
	count := 0
	for _, line := range s.state.snapshot() {
		count += line.Quantity
	}
	return count
}

// Err 最近一次操作的错误
func (s *CartStore) Err() error {
	return s.state.lastErr()
}

// Version 每次状态变更递增
func (s *CartStore) Version() uint64 {
	return s.state.currentVersion()
}

// Subscribe 订阅状态变更，返回取消函数
func (s *CartStore) Subscribe() (<-chan struct{}, func()) {
	return s.state.subscribe()
}
