package models

import (
	"time"
)

// CartItem 购物车项，按 用户+商品+尺码+颜色 唯一
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                          // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_variant,priority:1" json:"userId"`           // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_variant,priority:2" json:"productId"`        // 商品ID
	Size      string    `gorm:"type:varchar(32);not null;default:'';uniqueIndex:idx_cart_user_variant,priority:3" json:"size"`  // 尺码
	Color     string    `gorm:"type:varchar(32);not null;default:'';uniqueIndex:idx_cart_user_variant,priority:4" json:"color"` // 颜色
	Quantity  int       `gorm:"not null" json:"quantity"`                                                      // 数量（>= 1）
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                                                        // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`                                                        // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
