package repository

import (
	"testing"

	"github.com/lingerie-shop/internal/models"
)

func TestCartVariantsAreSeparateLines(t *testing.T) {
	db := openTestDB(t)
	repo := NewCartRepository(db)
	product := createTestProduct(t, db, "variant-lines", 50, 10)

	for _, size := range []string{"S", "M"} {
		if err := repo.Create(&models.CartItem{UserID: 7, ProductID: product.ID, Size: size, Color: "black", Quantity: 1}); err != nil {
			t.Fatalf("create line %s failed: %v", size, err)
		}
	}
	err := repo.Create(&models.CartItem{UserID: 7, ProductID: product.ID, Size: "S", Color: "black", Quantity: 1})
	if err == nil {
		t.Fatalf("duplicate variant line should violate unique index")
	}

	items, err := repo.ListByUser(7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 lines got %d", len(items))
	}
	if items[0].Product == nil || items[0].Product.ID != product.ID {
		t.Fatalf("product should be preloaded")
	}
}

func TestAdjustQuantityNeverGoesBelowOne(t *testing.T) {
	db := openTestDB(t)
	repo := NewCartRepository(db)
	product := createTestProduct(t, db, "adjust-guard", 50, 10)

	line := &models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 2}
	if err := repo.Create(line); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	affected, err := repo.AdjustQuantity(line.ID, -1)
	if err != nil || affected != 1 {
		t.Fatalf("decrement to 1 should succeed, affected=%d err=%v", affected, err)
	}
	affected, err = repo.AdjustQuantity(line.ID, -1)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("decrement below 1 should not apply")
	}

	got, err := repo.GetLine(1, product.ID, "", "")
	if err != nil {
		t.Fatalf("get line failed: %v", err)
	}
	if got == nil || got.Quantity != 1 {
		t.Fatalf("quantity should stay 1, got %+v", got)
	}
}

func TestDeleteLineIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewCartRepository(db)
	product := createTestProduct(t, db, "idempotent-delete", 50, 10)
	if err := repo.Create(&models.CartItem{UserID: 3, ProductID: product.ID, Size: "M", Quantity: 1}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(&models.CartItem{UserID: 3, ProductID: product.ID, Size: "L", Quantity: 1}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.DeleteLine(3, product.ID, "M", ""); err != nil {
			t.Fatalf("delete attempt %d failed: %v", i, err)
		}
	}
	items, _ := repo.ListByUser(3)
	if len(items) != 1 || items[0].Size != "L" {
		t.Fatalf("only L line should remain, got %+v", items)
	}

	if err := repo.DeleteByUserAndProduct(3, product.ID); err != nil {
		t.Fatalf("delete by product failed: %v", err)
	}
	items, _ = repo.ListByUser(3)
	if len(items) != 0 {
		t.Fatalf("cart should be empty, got %d", len(items))
	}
}
