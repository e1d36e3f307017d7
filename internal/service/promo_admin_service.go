package service

import (
	"strings"
	"time"

	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoAdminService 优惠码管理服务
type PromoAdminService struct {
	repo repository.PromoCodeRepository
}

// NewPromoAdminService 创建优惠码管理服务
func NewPromoAdminService(repo repository.PromoCodeRepository) *PromoAdminService {
	return &PromoAdminService{repo: repo}
}

// PromoCodeInput 创建/更新优惠码输入
type PromoCodeInput struct {
	Code         string
	Type         string
	Value        models.Money
	MinAmount    models.Money
	MaxDiscount  models.Money
	UsageLimit   int
	PerUserLimit int
	StartsAt     *time.Time
	EndsAt       *time.Time
	IsActive     *bool
}

// List 优惠码列表
func (s *PromoAdminService) List(filter repository.PromoCodeListFilter) ([]models.PromoCode, int64, error) {
	filter.Code = NormalizePromoCode(filter.Code)
	return s.repo.List(filter)
}

// Create 创建优惠码
func (s *PromoAdminService) Create(input PromoCodeInput) (*models.PromoCode, error) {
	code, promoType, err := validatePromoInput(input)
	if err != nil {
		return nil, err
	}
	exist, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrPromoCodeExists
	}

	promo := &models.PromoCode{IsActive: true}
	fillPromoCode(promo, code, promoType, input)
	if err := s.repo.Create(promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Update 更新优惠码，已使用次数保持不变
func (s *PromoAdminService) Update(id uint, input PromoCodeInput) (*models.PromoCode, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPromoNotFound
	}
	code, promoType, err := validatePromoInput(input)
	if err != nil {
		return nil, err
	}
	if code != existing.Code {
		dup, err := s.repo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrPromoCodeExists
		}
	}

	fillPromoCode(existing, code, promoType, input)
	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete 删除优惠码
func (s *PromoAdminService) Delete(id uint) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPromoNotFound
	}
	return s.repo.Delete(id)
}

func validatePromoInput(input PromoCodeInput) (string, string, error) {
	validation := &ValidationError{}
	code := NormalizePromoCode(input.Code)
	if code == "" {
		validation.Add("code", "validation.required")
	}
	promoType := strings.ToLower(strings.TrimSpace(input.Type))
	if promoType != constants.PromoTypeFixed && promoType != constants.PromoTypePercent {
		validation.Add("type", "validation.oneof")
	}
	if input.Value.Decimal.LessThanOrEqual(decimal.Zero) {
		validation.Add("value", "validation.gte")
	} else if promoType == constants.PromoTypePercent && input.Value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
		validation.Add("value", "validation.lte")
	}
	if input.MinAmount.Decimal.IsNegative() {
		validation.Add("minAmount", "validation.gte")
	}
	if input.MaxDiscount.Decimal.IsNegative() {
		validation.Add("maxDiscount", "validation.gte")
	}
	if input.UsageLimit < 0 {
		validation.Add("usageLimit", "validation.gte")
	}
	if input.PerUserLimit < 0 {
		validation.Add("perUserLimit", "validation.gte")
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		validation.Add("endsAt", "validation.invalid")
	}
	return code, promoType, validation.OrNil()
}

func fillPromoCode(promo *models.PromoCode, code, promoType string, input PromoCodeInput) {
	promo.Code = code
	promo.Type = promoType
	promo.Value = models.NewMoneyFromDecimal(input.Value.Decimal)
	promo.MinAmount = models.NewMoneyFromDecimal(input.MinAmount.Decimal)
	promo.MaxDiscount = models.NewMoneyFromDecimal(input.MaxDiscount.Decimal)
	promo.UsageLimit = input.UsageLimit
	promo.PerUserLimit = input.PerUserLimit
	promo.StartsAt = input.StartsAt
	promo.EndsAt = input.EndsAt
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}
}
