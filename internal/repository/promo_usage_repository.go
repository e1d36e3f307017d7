package repository

import (
	"github.com/lingerie-shop/internal/models"

	"gorm.io/gorm"
)

// PromoUsageRepository 优惠码使用记录数据访问接口
type PromoUsageRepository interface {
	Create(usage *models.PromoUsage) error
	CountByUser(promoCodeID, userID uint) (int64, error)
	ListByOrderID(orderID uint) ([]models.PromoUsage, error)
	DeleteByOrderID(orderID uint) error
	WithTx(tx *gorm.DB) *GormPromoUsageRepository
}

// GormPromoUsageRepository GORM 实现
type GormPromoUsageRepository struct {
	db *gorm.DB
}

// NewPromoUsageRepository 创建使用记录仓库
func NewPromoUsageRepository(db *gorm.DB) *GormPromoUsageRepository {
	return &GormPromoUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromoUsageRepository) WithTx(tx *gorm.DB) *GormPromoUsageRepository {
	if tx == nil {
		return r
	}
	return &GormPromoUsageRepository{db: tx}
}

// Create 创建使用记录
func (r *GormPromoUsageRepository) Create(usage *models.PromoUsage) error {
	return r.db.Create(usage).Error
}

// CountByUser 获取用户使用次数
func (r *GormPromoUsageRepository) CountByUser(promoCodeID, userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PromoUsage{}).
		Where("promo_code_id = ? AND user_id = ?", promoCodeID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByOrderID 获取订单使用记录
func (r *GormPromoUsageRepository) ListByOrderID(orderID uint) ([]models.PromoUsage, error) {
	var usages []models.PromoUsage
	if err := r.db.Where("order_id = ?", orderID).Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// DeleteByOrderID 删除订单使用记录
func (r *GormPromoUsageRepository) DeleteByOrderID(orderID uint) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.PromoUsage{}).Error
}
