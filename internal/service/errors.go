package service

import "errors"

var (
	// ErrNotFound 通用资源不存在
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials 账号或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidEmail 邮箱格式错误
	ErrInvalidEmail = errors.New("invalid email")
	// ErrEmailExists 邮箱已注册
	ErrEmailExists = errors.New("email already exists")
	// ErrUserDisabled 用户已禁用
	ErrUserDisabled = errors.New("user disabled")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrWeakPassword 密码不符合策略
	ErrWeakPassword = errors.New("weak password")
	// ErrSlugExists slug 已存在
	ErrSlugExists = errors.New("slug already exists")
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = errors.New("category not found")

	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductNotAvailable 商品已下架
	ErrProductNotAvailable = errors.New("product not available")
	// ErrSizeInvalid 尺码不在可选范围内
	ErrSizeInvalid = errors.New("size invalid")
	// ErrColorInvalid 颜色不在可选范围内
	ErrColorInvalid = errors.New("color invalid")
	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCartQuantityInvalid 购物车数量非法（结果数量小于 1）
	ErrCartQuantityInvalid = errors.New("cart quantity invalid")
	// ErrCartItemNotFound 购物车行不存在
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrCartEmpty 购物车为空
	ErrCartEmpty = errors.New("cart empty")
	// ErrCartBusy 购物车正在被其他请求修改
	ErrCartBusy = errors.New("cart busy")
	// ErrFavoriteNotFound 收藏商品不存在
	ErrFavoriteNotFound = errors.New("favorite product not found")

	// ErrPromoInvalid 优惠码为空或计算结果非法
	ErrPromoInvalid = errors.New("promo code invalid")
	// ErrPromoNotFound 优惠码不存在
	ErrPromoNotFound = errors.New("promo code not found")
	// ErrPromoInactive 优惠码未启用
	ErrPromoInactive = errors.New("promo code inactive")
	// ErrPromoNotStarted 优惠码未开始
	ErrPromoNotStarted = errors.New("promo code not started")
	// ErrPromoExpired 优惠码已过期
	ErrPromoExpired = errors.New("promo code expired")
	// ErrPromoUsageLimit 优惠码使用次数已满
	ErrPromoUsageLimit = errors.New("promo code usage limit reached")
	// ErrPromoPerUserLimit 超出单用户使用次数
	ErrPromoPerUserLimit = errors.New("promo code per user limit reached")
	// ErrPromoMinAmount 未达到最低消费
	ErrPromoMinAmount = errors.New("promo code min amount not reached")
	// ErrPromoCodeExists 优惠码重复
	ErrPromoCodeExists = errors.New("promo code already exists")

	// ErrDeliveryMethodInvalid 配送方式非法
	ErrDeliveryMethodInvalid = errors.New("delivery method invalid")
	// ErrPaymentMethodInvalid 支付方式非法
	ErrPaymentMethodInvalid = errors.New("payment method invalid")
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderCancelNotAllowed 当前状态不可取消
	ErrOrderCancelNotAllowed = errors.New("order cancel not allowed")
	// ErrOrderStatusInvalid 订单状态流转非法
	ErrOrderStatusInvalid = errors.New("order status invalid")
	// ErrOrderCreateFailed 订单创建失败
	ErrOrderCreateFailed = errors.New("order create failed")
	// ErrIdempotencyConflict 幂等键已用于内容不同的订单
	ErrIdempotencyConflict = errors.New("idempotency key reused with different items")

	// ErrEmailServiceDisabled 邮件服务未启用
	ErrEmailServiceDisabled = errors.New("email service disabled")
	// ErrEmailServiceNotConfigured 邮件服务未配置
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
)
