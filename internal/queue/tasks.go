package queue

import (
	"encoding/json"
	"fmt"

	"github.com/lingerie-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmation 下单确认通知任务
	TaskOrderConfirmation = constants.TaskOrderConfirmation
	// TaskOrderCanceled 订单取消通知任务
	TaskOrderCanceled = constants.TaskOrderCanceled
)

// OrderConfirmationPayload 下单确认任务载荷
type OrderConfirmationPayload struct {
	OrderID uint   `json:"order_id"`
	Locale  string `json:"locale,omitempty"`
}

// OrderCanceledPayload 订单取消任务载荷
type OrderCanceledPayload struct {
	OrderID uint   `json:"order_id"`
	Locale  string `json:"locale,omitempty"`
}

// NewOrderConfirmationTask 创建下单确认任务，同一订单只会入队一次
func NewOrderConfirmationTask(payload OrderConfirmationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmation, body, asynq.TaskID(fmt.Sprintf("order-confirmation-%d", payload.OrderID))), nil
}

// NewOrderCanceledTask 创建订单取消任务
func NewOrderCanceledTask(payload OrderCanceledPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderCanceled, body, asynq.TaskID(fmt.Sprintf("order-canceled-%d", payload.OrderID))), nil
}

// ParseOrderConfirmationPayload 解析下单确认载荷
func ParseOrderConfirmationPayload(raw []byte) (OrderConfirmationPayload, error) {
	var payload OrderConfirmationPayload
	err := json.Unmarshal(raw, &payload)
	return payload, err
}

// ParseOrderCanceledPayload 解析订单取消载荷
func ParseOrderCanceledPayload(raw []byte) (OrderCanceledPayload, error) {
	var payload OrderCanceledPayload
	err := json.Unmarshal(raw, &payload)
	return payload, err
}
