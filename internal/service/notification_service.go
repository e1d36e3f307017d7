package service

import (
	"context"
	"errors"

	"github.com/lingerie-shop/internal/i18n"
	"github.com/lingerie-shop/internal/logger"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/queue"
)

// OrderNotificationService 处理订单异步任务：确认订单并通知用户
type OrderNotificationService struct {
	orders *OrderService
	mailer Mailer
}

// NewOrderNotificationService 创建订单通知服务，mailer 可为 nil
func NewOrderNotificationService(orders *OrderService, mailer Mailer) *OrderNotificationService {
	return &OrderNotificationService{orders: orders, mailer: mailer}
}

// HandleConfirmation 确认订单并发送确认邮件；重复投递时不会重复发送
func (s *OrderNotificationService) HandleConfirmation(ctx context.Context, payload queue.OrderConfirmationPayload) error {
	if payload.OrderID == 0 {
		return ErrOrderNotFound
	}
	order, changed, err := s.orders.ConfirmOrder(payload.OrderID)
	if err != nil {
		return err
	}
	if !changed {
		logger.Debugw("order_confirmation_skipped", "order_id", order.ID, "status", order.Status)
		return nil
	}
	locale := i18n.NormalizeLocale(payload.Locale)
	subject := i18n.Sprintf(locale, "email.order_confirmation.subject", order.OrderNo)
	body := i18n.Sprintf(locale, "email.order_confirmation.body", order.OrderNo, order.TotalAmount.String(), order.Currency)
	return s.send(order, subject, body)
}

// HandleCanceled 发送订单取消邮件
func (s *OrderNotificationService) HandleCanceled(ctx context.Context, payload queue.OrderCanceledPayload) error {
	if payload.OrderID == 0 {
		return ErrOrderNotFound
	}
	order, err := s.orders.GetOrderAdmin(payload.OrderID)
	if err != nil {
		return err
	}
	locale := i18n.NormalizeLocale(payload.Locale)
	subject := i18n.Sprintf(locale, "email.order_canceled.subject", order.OrderNo)
	body := i18n.Sprintf(locale, "email.order_canceled.body", order.OrderNo)
	return s.send(order, subject, body)
}

func (s *OrderNotificationService) send(order *models.Order, subject, body string) error {
	if s.mailer == nil {
		logger.Infow("order_notification_logged", "order_id", order.ID, "email", order.Email, "subject", subject)
		return nil
	}
	if err := s.mailer.Send(order.Email, subject, body); err != nil {
		if errors.Is(err, ErrEmailServiceDisabled) {
			logger.Infow("order_notification_logged", "order_id", order.ID, "email", order.Email, "subject", subject)
			return nil
		}
		logger.Errorw("order_notification_failed", "order_id", order.ID, "error", err)
		return err
	}
	logger.Infow("order_notification_sent", "order_id", order.ID, "email", order.Email)
	return nil
}
