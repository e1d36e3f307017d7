package models

import (
	"time"
)

// OrderItem 订单项表
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID     uint      `gorm:"index;not null" json:"orderId"`                           // 订单ID
	ProductID   uint      `gorm:"index;not null" json:"productId"`                         // 商品ID
	ProductName string    `gorm:"type:varchar(200);not null" json:"name"`                  // 商品名称快照
	Size        string    `gorm:"type:varchar(32);not null;default:''" json:"size,omitempty"`  // 尺码
	Color       string    `gorm:"type:varchar(32);not null;default:''" json:"color,omitempty"` // 颜色
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unitPrice"`  // 下单时服务端单价
	Quantity    int       `gorm:"not null" json:"quantity"`                                // 数量
	TotalPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"totalPrice"` // 小计
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`                                   // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
