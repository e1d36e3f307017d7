package constants

// 订单状态常量
const (
	OrderStatusCreated   = "created"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// 配送方式常量
const (
	DeliveryMethodPostOffice    = "post_office"
	DeliveryMethodCourier       = "courier"
	DeliveryMethodPickup        = "pickup"
	DeliveryMethodInternational = "international"
)

// 支付方式常量（仅记录用户选择，不接入支付网关）
const (
	PaymentMethodApplePay   = "apple_pay"
	PaymentMethodGooglePay  = "google_pay"
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodCash       = "cash"
)

// DeliveryMethods 全部配送方式（按前端展示顺序）
var DeliveryMethods = []string{
	DeliveryMethodPostOffice,
	DeliveryMethodCourier,
	DeliveryMethodPickup,
	DeliveryMethodInternational,
}

// PaymentMethods 全部支付方式（按前端展示顺序）
var PaymentMethods = []string{
	PaymentMethodApplePay,
	PaymentMethodGooglePay,
	PaymentMethodCreditCard,
	PaymentMethodCash,
}

// 优惠码类型常量
const (
	PromoTypeFixed   = "fixed"
	PromoTypePercent = "percent"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 用户角色常量
const (
	UserRoleCustomer = "customer"
	UserRoleAdmin    = "admin"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskOrderConfirmation = "order:confirmation"
	TaskOrderCanceled     = "order:canceled"
)

// DefaultCurrency 默认币种
const DefaultCurrency = "USD"
