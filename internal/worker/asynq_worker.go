package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/lingerie-shop/internal/logger"
	"github.com/lingerie-shop/internal/provider"
	"github.com/lingerie-shop/internal/queue"
	"github.com/lingerie-shop/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmation, c.handleOrderConfirmation)
	mux.HandleFunc(queue.TaskOrderCanceled, c.handleOrderCanceled)
}

func (c *Consumer) handleOrderConfirmation(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.Container == nil || c.NotificationService == nil {
		logger.Debugw("worker_order_confirmation_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderConfirmationPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_order_confirmation_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err := c.NotificationService.HandleConfirmation(ctx, payload); err != nil {
		return skipMissingOrder("worker_order_confirmation_failed", payload.OrderID, err)
	}
	logger.Debugw("worker_order_confirmation_done", "order_id", payload.OrderID)
	return nil
}

func (c *Consumer) handleOrderCanceled(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.Container == nil || c.NotificationService == nil {
		logger.Debugw("worker_order_canceled_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderCanceledPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_order_canceled_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err := c.NotificationService.HandleCanceled(ctx, payload); err != nil {
		return skipMissingOrder("worker_order_canceled_failed", payload.OrderID, err)
	}
	logger.Debugw("worker_order_canceled_done", "order_id", payload.OrderID)
	return nil
}

// skipMissingOrder 订单不存在的任务不再重试
func skipMissingOrder(event string, orderID uint, err error) error {
	if errors.Is(err, service.ErrOrderNotFound) {
		logger.Warnw(event, "order_id", orderID, "error", err, "retry", false)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	logger.Warnw(event, "order_id", orderID, "error", err, "retry", true)
	return err
}
