package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                                  // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"orderNo"`                                   // 订单编号
	UserID         uint           `gorm:"not null;uniqueIndex:idx_order_user_idem,priority:1;index" json:"userId"` // 用户ID
	IdempotencyKey string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_order_user_idem,priority:2" json:"-"` // 幂等键
	Status         string         `gorm:"type:varchar(20);index;not null" json:"status"`                         // 订单状态
	FirstName      string         `gorm:"type:varchar(100);not null" json:"firstName"`                           // 收件人名
	LastName       string         `gorm:"type:varchar(100);not null" json:"lastName"`                            // 收件人姓
	Phone          string         `gorm:"type:varchar(32);not null" json:"phone"`                                // 联系电话
	Email          string         `gorm:"type:varchar(255);not null" json:"email"`                               // 联系邮箱
	DeliveryMethod string         `gorm:"type:varchar(32);not null" json:"deliveryMethod"`                       // 配送方式
	PaymentMethod  string         `gorm:"type:varchar(32);not null" json:"paymentMethod"`                        // 支付方式
	PromoCode      string         `gorm:"type:varchar(64)" json:"promoCode,omitempty"`                           // 使用的优惠码
	PromoCodeID    *uint          `gorm:"index" json:"-"`                                                        // 优惠码ID
	Currency       string         `gorm:"type:varchar(8);not null" json:"currency"`                              // 币种
	ItemsAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"itemsWorth"`               // 商品金额
	DeliveryCost   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"deliveryCost"`             // 运费
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`                 // 优惠金额
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`                    // 实付金额
	ConfirmedAt    *time.Time     `gorm:"index" json:"confirmedAt,omitempty"`                                    // 确认时间
	CanceledAt     *time.Time     `gorm:"index" json:"canceledAt,omitempty"`                                     // 取消时间
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`                                                // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updatedAt"`                                                // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                        // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
