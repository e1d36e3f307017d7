package storefront

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant 商品规格，空值表示未指定
type Variant struct {
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// CartLine 服务端购物车行
type CartLine struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Image     string          `json:"image,omitempty"`
	Stock     int             `json:"stock"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Variant 返回行的规格
func (l CartLine) Variant() Variant {
	return Variant{Size: l.Size, Color: l.Color}
}

// Worth 行金额
func (l CartLine) Worth() decimal.Decimal {
	if !l.LineTotal.IsZero() {
		return l.LineTotal
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ContactInfo 联系信息
type ContactInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Profile 用户资料
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// DeliveryOption 配送方式及运费
type DeliveryOption struct {
	Method string          `json:"method"`
	Cost   decimal.Decimal `json:"cost"`
}

// CheckoutOptions 结算可选项
type CheckoutOptions struct {
	Currency        string           `json:"currency"`
	DeliveryMethods []DeliveryOption `json:"deliveryMethods"`
	PaymentMethods  []string         `json:"paymentMethods"`
}

// PromoQuote 优惠码报价，折扣为绝对金额
type PromoQuote struct {
	PromoCode      string          `json:"promoCode"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	ItemsWorth     decimal.Decimal `json:"itemsWorth"`
}

// OrderDraftLine 下单行，只携带商品、规格与数量
type OrderDraftLine struct {
	ProductID uint   `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// OrderDraft 下单请求体
type OrderDraft struct {
	ContactInfo    ContactInfo      `json:"contactInfo"`
	DeliveryMethod string           `json:"deliveryMethod"`
	PaymentMethod  string           `json:"paymentMethod"`
	Items          []OrderDraftLine `json:"items"`
	PromoCode      string           `json:"promoCode,omitempty"`
}

// OrderItem 订单项
type OrderItem struct {
	ProductID  uint            `json:"productId"`
	Name       string          `json:"name"`
	Size       string          `json:"size,omitempty"`
	Color      string          `json:"color,omitempty"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Order 服务端订单
type Order struct {
	ID             uint            `json:"id"`
	OrderNo        string          `json:"orderNo"`
	Status         string          `json:"status"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	DeliveryMethod string          `json:"deliveryMethod"`
	PaymentMethod  string          `json:"paymentMethod"`
	PromoCode      string          `json:"promoCode,omitempty"`
	Currency       string          `json:"currency"`
	ItemsWorth     decimal.Decimal `json:"itemsWorth"`
	DeliveryCost   decimal.Decimal `json:"deliveryCost"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"createdAt"`
	Items          []OrderItem     `json:"items,omitempty"`
}

// OrderSummary 结算金额汇总，每次调用时重新计算
type OrderSummary struct {
	ItemsWorth   decimal.Decimal
	DeliveryCost decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
	// PromoStale 购物车在优惠码报价后发生变化，折扣暂不计入，提交前会重新报价
	PromoStale bool
}

// FavoriteItem 收藏项
type FavoriteItem struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	SalePrice decimal.Decimal `json:"salePrice"`
	Image     string          `json:"image,omitempty"`
}

// Product 商品（目录浏览使用）
type Product struct {
	ID              uint            `json:"id"`
	CategoryID      uint            `json:"categoryId"`
	Slug            string          `json:"slug"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	SalePrice       decimal.Decimal `json:"salePrice"`
	OnSale          bool            `json:"onSale"`
	DiscountPercent int             `json:"discountPercent"`
	Sizes           []string        `json:"sizes"`
	Colors          []string        `json:"colors"`
	Stock           int             `json:"stock"`
	IsNew           bool            `json:"isNew"`
	IsBestseller    bool            `json:"isBestseller"`
}

// ProductQuery 商品列表查询条件
type ProductQuery struct {
	CategoryID uint
	Query      string
	OnSale     bool
	IsNew      bool
	Bestseller bool
	Page       int
	PageSize   int
}

// AuthResult 登录/注册结果
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      struct {
		ID        uint   `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Role      string `json:"role"`
	} `json:"user"`
}

// RegisterInput 注册参数
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}
