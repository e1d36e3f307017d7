//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/lingerie-shop/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	all := models.AllModels()
	_ = db.Migrator().DropTable(all...)
	if err := db.AutoMigrate(all...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(all...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresProductSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	category := &models.Category{Slug: "pg-bras", Name: "Bras"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	productRepo := NewProductRepository(db)
	product := &models.Product{
		CategoryID:  category.ID,
		Slug:        "pg-midnight-lace",
		Name:        "Midnight Lace Bralette",
		Description: "Soft french lace",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(49)),
		Stock:       10,
		IsActive:    true,
	}
	if err := productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	rows, total, err := productRepo.List(ProductListFilter{Page: 1, PageSize: 10, Search: "LACE", OnlyActive: true})
	if err != nil {
		t.Fatalf("product search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("product search want 1 got total=%d len=%d", total, len(rows))
	}
}

func TestPostgresCartAdjustAndStockGuards(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	product := &models.Product{
		CategoryID:  1,
		Slug:        "pg-silk-robe",
		Name:        "Silk Robe",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		Stock:       2,
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	cartRepo := NewCartRepository(db)
	line := &models.CartItem{UserID: 1, ProductID: product.ID, Size: "M", Quantity: 1}
	if err := cartRepo.Create(line); err != nil {
		t.Fatalf("create cart line failed: %v", err)
	}
	if affected, err := cartRepo.AdjustQuantity(line.ID, -1); err != nil || affected != 0 {
		t.Fatalf("decrement to zero must be refused, affected=%d err=%v", affected, err)
	}

	productRepo := NewProductRepository(db)
	if affected, err := productRepo.DecrementStock(product.ID, 3); err != nil || affected != 0 {
		t.Fatalf("oversell must be refused, affected=%d err=%v", affected, err)
	}
}
