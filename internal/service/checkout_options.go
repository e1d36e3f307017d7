package service

import (
	"strings"

	"github.com/lingerie-shop/internal/config"
	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/models"
)

var defaultDeliveryCosts = map[string]float64{
	constants.DeliveryMethodPostOffice:    35,
	constants.DeliveryMethodCourier:       35,
	constants.DeliveryMethodPickup:        0,
	constants.DeliveryMethodInternational: 120,
}

// DeliveryOption 配送方式及运费
type DeliveryOption struct {
	Method string       `json:"method"`
	Cost   models.Money `json:"cost"`
}

// CheckoutOptions 结算页可选项
type CheckoutOptions struct {
	Currency        string           `json:"currency"`
	DeliveryMethods []DeliveryOption `json:"deliveryMethods"`
	PaymentMethods  []string         `json:"paymentMethods"`
}

// CheckoutOptionsService 结算选项服务
type CheckoutOptionsService struct {
	currency       string
	deliveryCosts  map[string]models.Money
	paymentMethods []string
}

// NewCheckoutOptionsService 根据配置创建结算选项服务，未知方式会被忽略
func NewCheckoutOptionsService(cfg config.CheckoutConfig) *CheckoutOptionsService {
	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = constants.DefaultCurrency
	}

	costs := make(map[string]models.Money, len(constants.DeliveryMethods))
	for _, method := range constants.DeliveryMethods {
		cost, ok := cfg.DeliveryCosts[method]
		if !ok || cost < 0 {
			cost = defaultDeliveryCosts[method]
		}
		costs[method] = models.NewMoneyFromFloat(cost)
	}

	payments := make([]string, 0, len(constants.PaymentMethods))
	for _, method := range cfg.PaymentMethods {
		method = strings.ToLower(strings.TrimSpace(method))
		if isKnownPaymentMethod(method) && !containsString(payments, method) {
			payments = append(payments, method)
		}
	}
	if len(payments) == 0 {
		payments = append(payments, constants.PaymentMethods...)
	}

	return &CheckoutOptionsService{
		currency:       currency,
		deliveryCosts:  costs,
		paymentMethods: payments,
	}
}

// Options 返回结算选项
func (s *CheckoutOptionsService) Options() CheckoutOptions {
	delivery := make([]DeliveryOption, 0, len(constants.DeliveryMethods))
	for _, method := range constants.DeliveryMethods {
		delivery = append(delivery, DeliveryOption{Method: method, Cost: s.deliveryCosts[method]})
	}
	return CheckoutOptions{
		Currency:        s.currency,
		DeliveryMethods: delivery,
		PaymentMethods:  append([]string(nil), s.paymentMethods...),
	}
}

// Currency 返回结算币种
func (s *CheckoutOptionsService) Currency() string {
	return s.currency
}

// DeliveryCost 获取配送方式运费
func (s *CheckoutOptionsService) DeliveryCost(method string) (models.Money, error) {
	cost, ok := s.deliveryCosts[strings.TrimSpace(method)]
	if !ok {
		return models.Money{}, ErrDeliveryMethodInvalid
	}
	return cost, nil
}

// ValidatePaymentMethod 校验支付方式是否启用
func (s *CheckoutOptionsService) ValidatePaymentMethod(method string) error {
	if !containsString(s.paymentMethods, strings.TrimSpace(method)) {
		return ErrPaymentMethodInvalid
	}
	return nil
}

func isKnownPaymentMethod(method string) bool {
	return containsString(constants.PaymentMethods, method)
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
