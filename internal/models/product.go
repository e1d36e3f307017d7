package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                      // 主键
	CategoryID      uint           `gorm:"not null;index" json:"categoryId"`                          // 分类ID
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	Name            string         `gorm:"type:varchar(200);not null" json:"name"`                    // 名称
	Description     string         `gorm:"type:text" json:"description"`                              // 描述
	PriceAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`        // 原价
	DiscountPercent int            `gorm:"not null;default:0" json:"discountPercent"`                 // 折扣百分比（0 表示无折扣）
	Images          StringArray    `gorm:"type:json" json:"images"`                                   // 图片数组
	Sizes           StringArray    `gorm:"type:json" json:"sizes"`                                    // 可选尺码
	Colors          StringArray    `gorm:"type:json" json:"colors"`                                   // 可选颜色
	Stock           int            `gorm:"not null;default:0" json:"stock"`                           // 库存
	IsNew           bool           `gorm:"not null;default:false;index" json:"isNew"`                 // 新品
	IsBestseller    bool           `gorm:"not null;default:false;index" json:"isBestseller"`          // 畅销
	IsActive        bool           `gorm:"not null;index" json:"isActive"`                           // 是否上架
	SortOrder       int            `gorm:"default:0;index" json:"sortOrder"`                          // 排序权重
	CreatedAt       time.Time      `gorm:"index" json:"createdAt"`                                    // 创建时间
	UpdatedAt       time.Time      `json:"updatedAt"`                                                 // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// SalePrice 返回折后单价，服务端下单与购物车均以此为准
func (p Product) SalePrice() Money {
	if p.DiscountPercent <= 0 || p.DiscountPercent >= 100 {
		return NewMoneyFromDecimal(p.PriceAmount.Decimal)
	}
	rate := decimal.NewFromInt(int64(100 - p.DiscountPercent)).Div(decimal.NewFromInt(100))
	return NewMoneyFromDecimal(p.PriceAmount.Decimal.Mul(rate))
}

// AcceptsVariant 判断尺码与颜色是否为商品可选值，空值表示未指定
func (p Product) AcceptsVariant(size, color string) (sizeOK bool, colorOK bool) {
	sizeOK = size == "" || len(p.Sizes) == 0 || p.Sizes.Contains(size)
	colorOK = color == "" || len(p.Colors) == 0 || p.Colors.Contains(color)
	return sizeOK, colorOK
}
