package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lingerie-shop/internal/cache"
	"github.com/lingerie-shop/internal/config"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/queue"
	"github.com/lingerie-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingQueue struct {
	mu           sync.Mutex
	confirmation []queue.OrderConfirmationPayload
	canceled     []queue.OrderCanceledPayload
}

func (q *recordingQueue) EnqueueOrderConfirmation(payload queue.OrderConfirmationPayload, _ ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.confirmation = append(q.confirmation, payload)
	return nil
}

func (q *recordingQueue) EnqueueOrderCanceled(payload queue.OrderCanceledPayload, _ ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.canceled = append(q.canceled, payload)
	return nil
}

type shopFixture struct {
	db       *gorm.DB
	queue    *recordingQueue
	cart     *CartService
	promo    *PromoService
	orders   *OrderService
	products *ProductService
	options  *CheckoutOptionsService
	users    *UserAuthService
}

// setupShop 初始化独立的内存库并装配服务
func setupShop(t *testing.T) *shopFixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
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

	cfg := &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		},
		Checkout: config.CheckoutConfig{
			Currency: "USD",
			DeliveryCosts: map[string]float64{
				"post_office":   35,
				"courier":       35,
				"pickup":        0,
				"international": 120,
			},
		},
	}

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	promoRepo := repository.NewPromoCodeRepository(db)
	usageRepo := repository.NewPromoUsageRepository(db)
	recorder := &recordingQueue{}
	options := NewCheckoutOptionsService(cfg.Checkout)
	products := NewProductService(productRepo, repository.NewCategoryRepository(db), time.Minute)

	return &shopFixture{
		db:       db,
		queue:    recorder,
		cart:     NewCartService(cartRepo, productRepo, time.Second),
		promo:    NewPromoService(promoRepo, usageRepo),
		orders:   NewOrderService(repository.NewOrderRepository(db), productRepo, cartRepo, promoRepo, usageRepo, options, products, recorder),
		products: products,
		options:  options,
		users:    NewUserAuthService(cfg, repository.NewUserRepository(db)),
	}
}

func (f *shopFixture) createProduct(t *testing.T, slug string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:  1,
		Slug:        slug,
		Name:        "Item " + slug,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Sizes:       models.StringArray{"S", "M", "L"},
		Colors:      models.StringArray{"black", "red"},
		Stock:       stock,
		IsActive:    true,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (f *shopFixture) createPromo(t *testing.T, promo *models.PromoCode) *models.PromoCode {
	t.Helper()
	if err := f.db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}
	return promo
}

func (f *shopFixture) reloadProduct(t *testing.T, id uint) models.Product {
	t.Helper()
	var product models.Product
	if err := f.db.First(&product, id).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return product
}

func money(value int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(value))
}

func validContact() ContactInfo {
	return ContactInfo{FirstName: "Olena", LastName: "Koval", Phone: "+380501112233", Email: "olena@example.com"}
}
