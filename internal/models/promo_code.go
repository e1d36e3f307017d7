package models

import (
	"time"

	"gorm.io/gorm"
)

// PromoCode 优惠码
type PromoCode struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Code         string         `gorm:"uniqueIndex;not null" json:"code"`                         // 优惠码（大写存储）
	Type         string         `gorm:"type:varchar(20);not null" json:"type"`                    // 类型（fixed/percent）
	Value        Money          `gorm:"type:decimal(20,2);not null" json:"value"`                 // 数值（固定金额或百分比）
	MinAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"minAmount"`   // 使用门槛
	MaxDiscount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"maxDiscount"` // 最大优惠金额（0 表示不限制）
	UsageLimit   int            `gorm:"not null;default:0" json:"usageLimit"`                     // 总使用上限（0 表示不限制）
	UsedCount    int            `gorm:"not null;default:0" json:"usedCount"`                      // 已使用次数
	PerUserLimit int            `gorm:"not null;default:0" json:"perUserLimit"`                   // 每人使用上限（0 表示不限制）
	StartsAt     *time.Time     `gorm:"index" json:"startsAt"`                                    // 生效时间
	EndsAt       *time.Time     `gorm:"index" json:"endsAt"`                                      // 失效时间
	IsActive     bool           `gorm:"not null" json:"isActive"`                                 // 是否启用
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`                                   // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updatedAt"`                                   // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (PromoCode) TableName() string {
	return "promo_codes"
}
