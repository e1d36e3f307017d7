package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lingerie-shop/internal/cache"
	"github.com/lingerie-shop/internal/config"
	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/provider"
	"github.com/lingerie-shop/internal/queue"
	"github.com/lingerie-shop/internal/repository"
	"github.com/lingerie-shop/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

func setupConsumer(t *testing.T) (*Consumer, *fakeMailer) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	previous := models.DB
	models.DB = db
	cache.UseClient(nil, "")
	t.Cleanup(func() {
		models.DB = previous
		_ = sqlDB.Close()
	})

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	options := service.NewCheckoutOptionsService(config.CheckoutConfig{})
	orders := service.NewOrderService(
		orderRepo,
		productRepo,
		repository.NewCartRepository(db),
		repository.NewPromoCodeRepository(db),
		repository.NewPromoUsageRepository(db),
		options,
		service.NewProductService(productRepo, categoryRepo, 0),
		nil,
	)
	mailer := &fakeMailer{}
	container := &provider.Container{
		OrderRepo:           orderRepo,
		OrderService:        orders,
		NotificationService: service.NewOrderNotificationService(orders, mailer),
	}
	return NewConsumer(container), mailer
}

func createPendingOrder(t *testing.T) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:        "LS-WORKER-1",
		UserID:         1,
		IdempotencyKey: "worker-key",
		Status:         constants.OrderStatusCreated,
		FirstName:      "Olena",
		LastName:       "Koval",
		Phone:          "+380501112233",
		Email:          "olena@example.com",
		DeliveryMethod: constants.DeliveryMethodCourier,
		PaymentMethod:  constants.PaymentMethodCash,
		Currency:       constants.DefaultCurrency,
		TotalAmount:    models.NewMoneyFromFloat(84),
	}
	if err := models.DB.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestHandleOrderConfirmationConfirmsOnce(t *testing.T) {
	consumer, mailer := setupConsumer(t)
	order := createPendingOrder(t)

	task, err := queue.NewOrderConfirmationTask(queue.OrderConfirmationPayload{OrderID: order.ID, Locale: "uk-UA"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := consumer.handleOrderConfirmation(context.Background(), task); err != nil {
			t.Fatalf("handle confirmation #%d failed: %v", i, err)
		}
	}

	var reloaded models.Order
	if err := models.DB.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", reloaded.Status)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one confirmation email, got %d", len(mailer.sent))
	}
	if !strings.HasPrefix(mailer.sent[0], "olena@example.com|") {
		t.Fatalf("unexpected receiver: %s", mailer.sent[0])
	}
}

func TestHandleOrderConfirmationSkipsRetryForMissingOrder(t *testing.T) {
	consumer, mailer := setupConsumer(t)

	task, err := queue.NewOrderConfirmationTask(queue.OrderConfirmationPayload{OrderID: 999})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	err = consumer.handleOrderConfirmation(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("no email expected for missing order")
	}
}

func TestHandleOrderCanceledRejectsMalformedPayload(t *testing.T) {
	consumer, _ := setupConsumer(t)
	task := asynq.NewTask(queue.TaskOrderCanceled, []byte("{not-json"))
	err := consumer.handleOrderCanceled(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for malformed payload, got %v", err)
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{}); err == nil {
		t.Fatalf("expected error when queue disabled")
	}
}
