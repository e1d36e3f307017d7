package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lingerie-shop/internal/cache"
	"github.com/lingerie-shop/internal/logger"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultCartLockTTL  = 5 * time.Second
	defaultCartLockWait = 2 * time.Second
)

// CartVariant 购物车行的规格（尺码/颜色），空值表示未选择
type CartVariant struct {
	Size  string `json:"size"`
	Color string `json:"color"`
}

func (v CartVariant) normalized() CartVariant {
	return CartVariant{Size: strings.TrimSpace(v.Size), Color: strings.TrimSpace(v.Color)}
}

// CartLine 购物车行（响应用），单价以服务端为准
type CartLine struct {
	ProductID uint         `json:"productId"`
	Name      string       `json:"name"`
	UnitPrice models.Money `json:"unitPrice"`
	Quantity  int          `json:"quantity"`
	Size      string       `json:"size,omitempty"`
	Color     string       `json:"color,omitempty"`
	Image     string       `json:"image,omitempty"`
	Stock     int          `json:"stock"`
	LineTotal models.Money `json:"lineTotal"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	lockTTL     time.Duration
	lockWait    time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, lockTTL time.Duration) *CartService {
	if lockTTL <= 0 {
		lockTTL = defaultCartLockTTL
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		lockTTL:     lockTTL,
		lockWait:    defaultCartLockWait,
	}
}

// List 获取用户购物车，已下架或删除的商品会被移出购物车
func (s *CartService) List(ctx context.Context, userID uint) ([]CartLine, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	lines := make([]CartLine, 0, len(items))
	stale := make([]uint, 0)
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 || !product.IsActive {
			stale = append(stale, item.ID)
			continue
		}
		lines = append(lines, buildCartLine(item, product))
	}
	if len(stale) > 0 {
		if err := s.cartRepo.DeleteByIDs(stale); err != nil {
			logger.Warnw("cart_prune_failed", "user_id", userID, "error", err)
		} else {
			logger.Infow("cart_pruned_unavailable_items", "user_id", userID, "count", len(stale))
		}
	}
	return lines, nil
}

// Add 按增量修改购物车行，delta 可为负；结果数量不得小于 1
func (s *CartService) Add(ctx context.Context, userID, productID uint, delta int, variant CartVariant) ([]CartLine, error) {
	if userID == 0 || productID == 0 || delta == 0 {
		return nil, ErrCartQuantityInvalid
	}
	variant = variant.normalized()

	err := s.withCartLock(ctx, userID, func() error {
		return models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			cartRepo := s.cartRepo.WithTx(tx)
			product, err := s.productRepo.WithTx(tx).GetByID(productID)
			if err != nil {
				return err
			}
			if product == nil {
				return ErrProductNotFound
			}

			line, err := cartRepo.GetLine(userID, productID, variant.Size, variant.Color)
			if err != nil {
				return err
			}

			if line == nil {
				if delta < 1 {
					return ErrCartQuantityInvalid
				}
				if !product.IsActive {
					return ErrProductNotAvailable
				}
				sizeOK, colorOK := product.AcceptsVariant(variant.Size, variant.Color)
				if !sizeOK {
					return ErrSizeInvalid
				}
				if !colorOK {
					return ErrColorInvalid
				}
				if delta > product.Stock {
					return ErrInsufficientStock
				}
				return cartRepo.Create(&models.CartItem{
					UserID:    userID,
					ProductID: productID,
					Size:      variant.Size,
					Color:     variant.Color,
					Quantity:  delta,
				})
			}

			next := line.Quantity + delta
			if next < 1 {
				return ErrCartQuantityInvalid
			}
			if delta > 0 {
				if !product.IsActive {
					return ErrProductNotAvailable
				}
				if next > product.Stock {
					return ErrInsufficientStock
				}
			}
			affected, err := cartRepo.AdjustQuantity(line.ID, delta)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrCartQuantityInvalid
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}

// Remove 删除购物车行，行不存在时视为成功；variant 为 nil 时删除该商品全部规格
func (s *CartService) Remove(ctx context.Context, userID, productID uint, variant *CartVariant) ([]CartLine, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrCartItemNotFound
	}
	err := s.withCartLock(ctx, userID, func() error {
		repo := s.cartRepo.WithTx(models.DB.WithContext(ctx))
		if variant == nil {
			return repo.DeleteByUserAndProduct(userID, productID)
		}
		v := variant.normalized()
		return repo.DeleteLine(userID, productID, v.Size, v.Color)
	})
	if err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUserNotFound
	}
	return s.withCartLock(ctx, userID, func() error {
		return s.cartRepo.WithTx(models.DB.WithContext(ctx)).ClearByUser(userID)
	})
}

// ItemsWorth 计算购物车商品总额
func ItemsWorth(lines []CartLine) models.Money {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal.Decimal)
	}
	return models.NewMoneyFromDecimal(total)
}

// withCartLock 同一用户的购物车写操作串行执行；Redis 不可用时退化为数据库行级保护
func (s *CartService) withCartLock(ctx context.Context, userID uint, fn func() error) error {
	lock, err := cache.AcquireLock(ctx, cartLockKey(userID), s.lockTTL, s.lockWait)
	if err != nil {
		if errors.Is(err, cache.ErrLockNotAcquired) {
			return ErrCartBusy
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Warnw("cart_lock_unavailable", "user_id", userID, "error", err)
	}
	defer func() {
		if releaseErr := lock.Release(context.Background()); releaseErr != nil {
			logger.Warnw("cart_lock_release_failed", "user_id", userID, "error", releaseErr)
		}
	}()
	return fn()
}

func cartLockKey(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

func buildCartLine(item models.CartItem, product *models.Product) CartLine {
	unitPrice := product.SalePrice()
	line := CartLine{
		ProductID: item.ProductID,
		Name:      product.Name,
		UnitPrice: unitPrice,
		Quantity:  item.Quantity,
		Size:      item.Size,
		Color:     item.Color,
		Stock:     product.Stock,
		LineTotal: unitPrice.Times(item.Quantity),
	}
	if len(product.Images) > 0 {
		line.Image = product.Images[0]
	}
	return line
}
