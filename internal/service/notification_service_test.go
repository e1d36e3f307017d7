package service

import (
	"context"
	"strings"
	"testing"

	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/queue"
)

type capturedMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []capturedMail
}

func (m *fakeMailer) Send(toEmail, subject, body string) error {
	m.sent = append(m.sent, capturedMail{to: toEmail, subject: subject, body: body})
	return nil
}

func TestOrderConfirmationSendsOnce(t *testing.T) {
	f := setupShop(t)
	ctx := context.Background()
	product := f.createProduct(t, "babydoll", 55, 5)
	result, err := f.orders.CreateOrder(ctx, CreateOrderInput{
		UserID:         1,
		Contact:        validContact(),
		DeliveryMethod: constants.DeliveryMethodPickup,
		PaymentMethod:  constants.PaymentMethodCash,
		Items:          []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	mailer := &fakeMailer{}
	notifier := NewOrderNotificationService(f.orders, mailer)
	payload := queue.OrderConfirmationPayload{OrderID: result.Order.ID, Locale: "uk-UA"}
	if err := notifier.HandleConfirmation(ctx, payload); err != nil {
		t.Fatalf("handle confirmation failed: %v", err)
	}
	if err := notifier.HandleConfirmation(ctx, payload); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected exactly one mail, got %d", len(mailer.sent))
	}
	mail := mailer.sent[0]
	if mail.to != "olena@example.com" || !strings.Contains(mail.subject, result.Order.OrderNo) {
		t.Fatalf("unexpected mail: %+v", mail)
	}
	if !strings.Contains(mail.body, "55.00") {
		t.Fatalf("mail body should carry the total, got %q", mail.body)
	}

	order, err := f.orders.GetOrderAdmin(result.Order.ID)
	if err != nil || order.Status != constants.OrderStatusConfirmed {
		t.Fatalf("order must be confirmed, got %+v %v", order, err)
	}
}
