package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/logger"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoService 优惠码校验与折扣计算
type PromoService struct {
	promoRepo repository.PromoCodeRepository
	usageRepo repository.PromoUsageRepository
	now       func() time.Time
}

// NewPromoService 创建优惠码服务
func NewPromoService(promoRepo repository.PromoCodeRepository, usageRepo repository.PromoUsageRepository) *PromoService {
	return &PromoService{
		promoRepo: promoRepo,
		usageRepo: usageRepo,
		now:       time.Now,
	}
}

// PromoQuote 优惠码试算结果，DiscountAmount 为绝对金额
type PromoQuote struct {
	PromoCode      string       `json:"promoCode"`
	DiscountAmount models.Money `json:"discountAmount"`
	ItemsWorth     models.Money `json:"itemsWorth"`
}

// NormalizePromoCode 统一优惠码格式
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsPromoRejection 判断是否为优惠码业务拒绝（非系统错误）
func IsPromoRejection(err error) bool {
	for _, target := range []error{
		ErrPromoInvalid,
		ErrPromoNotFound,
		ErrPromoInactive,
		ErrPromoNotStarted,
		ErrPromoExpired,
		ErrPromoUsageLimit,
		ErrPromoPerUserLimit,
		ErrPromoMinAmount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Evaluate 按服务端商品金额计算折扣，失败时折扣为 0
func (s *PromoService) Evaluate(subtotal models.Money, code string, userID uint) (models.Money, *models.PromoCode, error) {
	normalized := NormalizePromoCode(code)
	if normalized == "" {
		return models.Money{}, nil, ErrPromoInvalid
	}

	promo, err := s.promoRepo.GetByCode(normalized)
	if err != nil {
		return models.Money{}, nil, err
	}
	if promo == nil {
		return models.Money{}, nil, ErrPromoNotFound
	}
	if !promo.IsActive {
		return models.Money{}, promo, ErrPromoInactive
	}

	now := s.now()
	if promo.StartsAt != nil && now.Before(*promo.StartsAt) {
		return models.Money{}, promo, ErrPromoNotStarted
	}
	if promo.EndsAt != nil && now.After(*promo.EndsAt) {
		return models.Money{}, promo, ErrPromoExpired
	}
	if promo.UsageLimit > 0 && promo.UsedCount >= promo.UsageLimit {
		return models.Money{}, promo, ErrPromoUsageLimit
	}
	if promo.PerUserLimit > 0 && userID != 0 {
		count, err := s.usageRepo.CountByUser(promo.ID, userID)
		if err != nil {
			return models.Money{}, promo, err
		}
		if int(count) >= promo.PerUserLimit {
			return models.Money{}, promo, ErrPromoPerUserLimit
		}
	}
	if subtotal.Decimal.Cmp(promo.MinAmount.Decimal) < 0 {
		return models.Money{}, promo, ErrPromoMinAmount
	}

	discount, err := calculatePromoDiscount(promo, subtotal)
	if err != nil {
		return models.Money{}, promo, err
	}
	if promo.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.Decimal.GreaterThan(promo.MaxDiscount.Decimal) {
		discount = models.NewMoneyFromDecimal(promo.MaxDiscount.Decimal)
	}
	if discount.Decimal.GreaterThan(subtotal.Decimal) {
		discount = models.NewMoneyFromDecimal(subtotal.Decimal)
	}
	return discount, promo, nil
}

// ApplyToCart 用当前购物车金额试算优惠码
func (s *PromoService) ApplyToCart(ctx context.Context, cart *CartService, userID uint, code string) (*PromoQuote, error) {
	normalized := NormalizePromoCode(code)
	if normalized == "" {
		return nil, ErrPromoInvalid
	}
	lines, err := cart.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}
	subtotal := ItemsWorth(lines)
	discount, _, err := s.Evaluate(subtotal, normalized, userID)
	if err != nil {
		if IsPromoRejection(err) {
			logger.Debugw("promo_code_rejected", "user_id", userID, "code", normalized, "reason", err.Error())
		}
		return nil, err
	}
	return &PromoQuote{
		PromoCode:      normalized,
		DiscountAmount: discount,
		ItemsWorth:     subtotal,
	}, nil
}

func calculatePromoDiscount(promo *models.PromoCode, subtotal models.Money) (models.Money, error) {
	if promo.Value.Decimal.LessThanOrEqual(decimal.Zero) {
		return models.Money{}, ErrPromoInvalid
	}
	switch strings.ToLower(strings.TrimSpace(promo.Type)) {
	case constants.PromoTypeFixed:
		return models.NewMoneyFromDecimal(promo.Value.Decimal), nil
	case constants.PromoTypePercent:
		percent := promo.Value.Decimal.Div(decimal.NewFromInt(100))
		return models.NewMoneyFromDecimal(subtotal.Decimal.Mul(percent)), nil
	default:
		return models.Money{}, ErrPromoInvalid
	}
}
