package repository

import (
	"testing"

	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/models"

	"github.com/shopspring/decimal"
)

func createTestOrder(t *testing.T, repo *GormOrderRepository, userID uint, key string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:        "LS" + key,
		UserID:         userID,
		IdempotencyKey: key,
		Status:         constants.OrderStatusCreated,
		FirstName:      "Olena",
		LastName:       "K",
		Phone:          "+380000000",
		Email:          "olena@example.com",
		DeliveryMethod: constants.DeliveryMethodCourier,
		PaymentMethod:  constants.PaymentMethodCash,
		Currency:       "USD",
		TotalAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(145)),
	}
	items := []models.OrderItem{
		{ProductID: 1, ProductName: "Set", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(50)), Quantity: 2},
		{ProductID: 2, ProductName: "Robe", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(30)), Quantity: 1},
	}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderIdempotencyLookup(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	created := createTestOrder(t, repo, 9, "key-1")

	got, err := repo.GetByIdempotencyKey(9, "key-1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("expected original order")
	}
	if len(got.Items) != 2 {
		t.Fatalf("items should be preloaded, got %d", len(got.Items))
	}

	other, err := repo.GetByIdempotencyKey(10, "key-1")
	if err != nil {
		t.Fatalf("lookup other user failed: %v", err)
	}
	if other != nil {
		t.Fatalf("idempotency keys are scoped per user")
	}
}

func TestOrderTransitionStatusGuardsSource(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	order := createTestOrder(t, repo, 1, "key-transition")

	affected, err := repo.TransitionStatus(order.ID, constants.OrderStatusCreated, constants.OrderStatusCanceled, nil)
	if err != nil || affected != 1 {
		t.Fatalf("cancel created order: affected=%d err=%v", affected, err)
	}
	affected, err = repo.TransitionStatus(order.ID, constants.OrderStatusCreated, constants.OrderStatusConfirmed, nil)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("canceled order must not be confirmed")
	}

	list, total, err := repo.List(OrderListFilter{UserID: 1, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || list[0].Status != constants.OrderStatusCanceled {
		t.Fatalf("unexpected list result total=%d", total)
	}
}
