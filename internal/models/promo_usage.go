package models

import (
	"time"
)

// PromoUsage 优惠码使用记录
type PromoUsage struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                        // 主键
	PromoCodeID    uint      `gorm:"index;not null" json:"promoCodeId"`                           // 优惠码ID
	UserID         uint      `gorm:"index;not null" json:"userId"`                                // 用户ID
	OrderID        uint      `gorm:"index;not null" json:"orderId"`                               // 订单ID
	DiscountAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discountAmount"` // 优惠金额
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`                                      // 创建时间
}

// TableName 指定表名
func (PromoUsage) TableName() string {
	return "promo_usages"
}
