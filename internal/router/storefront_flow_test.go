package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lingerie-shop/internal/cache"
	"github.com/lingerie-shop/internal/config"
	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/logger"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/provider"
	"github.com/lingerie-shop/internal/repository"
	"github.com/lingerie-shop/internal/service"
	"github.com/lingerie-shop/internal/storefront"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

type storefrontFlowEnv struct {
	db     *gorm.DB
	server *httptest.Server
	bra    *models.Product
	briefs *models.Product
}

// setupStorefrontFlow 用内存库与 miniredis 启动完整路由
func setupStorefrontFlow(t *testing.T) *storefrontFlowEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.L = logger.NewWriter(io.Discard, zapcore.ErrorLevel)

	dsn := fmt.Sprintf("file:router_flow_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
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

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.UseClient(redisClient, "ls")
	t.Cleanup(func() {
		cache.UseClient(nil, "")
		_ = redisClient.Close()
		models.DB = previous
		_ = sqlDB.Close()
	})

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		UserJWT: config.JWTConfig{SecretKey: testSecret, ExpireHours: 1},
		Redis:   config.RedisConfig{Prefix: "ls"},
		Security: config.SecurityConfig{
			LoginRateLimit: config.RateLimitConfig{WindowSeconds: 60, MaxAttempts: 20},
			PromoRateLimit: config.RateLimitConfig{WindowSeconds: 60, MaxAttempts: 3},
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		},
		Checkout: config.CheckoutConfig{
			Currency:      "USD",
			DeliveryCosts: map[string]float64{"post_office": 35, "courier": 35, "pickup": 0, "international": 120},
		},
	}

	category := &models.Category{Slug: "bras", Name: "Bras"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	newProduct := func(slug string, price int64) *models.Product {
		product := &models.Product{
			CategoryID:  category.ID,
			Slug:        slug,
			Name:        "Item " + slug,
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
			Sizes:       models.StringArray{"S", "M", "L"},
			Colors:      models.StringArray{"black", "red"},
			Stock:       10,
			IsActive:    true,
		}
		if err := db.Create(product).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
		return product
	}
	env := &storefrontFlowEnv{db: db, bra: newProduct("lace-bra", 50), briefs: newProduct("silk-briefs", 30)}
	promo := &models.PromoCode{
		Code:     "SAVE20",
		Type:     constants.PromoTypeFixed,
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		IsActive: true,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	promoRepo := repository.NewPromoCodeRepository(db)
	usageRepo := repository.NewPromoUsageRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	products := service.NewProductService(productRepo, categoryRepo, time.Minute)
	options := service.NewCheckoutOptionsService(cfg.Checkout)
	container := &provider.Container{
		Config:          cfg,
		UserRepo:        userRepo,
		ProductRepo:     productRepo,
		CategoryRepo:    categoryRepo,
		CartRepo:        cartRepo,
		OrderRepo:       orderRepo,
		UserAuthService: service.NewUserAuthService(cfg, userRepo),
		ProductService:  products,
		CategoryService: service.NewCategoryService(categoryRepo),
		CartService:     service.NewCartService(cartRepo, productRepo, time.Second),
		PromoService:    service.NewPromoService(promoRepo, usageRepo),
		CheckoutOptions: options,
		OrderService:    service.NewOrderService(orderRepo, productRepo, cartRepo, promoRepo, usageRepo, options, products, nil),
	}

	env.server = httptest.NewServer(SetupRouter(cfg, container))
	t.Cleanup(env.server.Close)
	return env
}

func (e *storefrontFlowEnv) client(t *testing.T) *storefront.Client {
	t.Helper()
	client, err := storefront.NewClient(storefront.Config{BaseURL: e.server.URL + "/api/v1", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	return client
}

func TestStorefrontCheckoutAgainstRouter(t *testing.T) {
	env := setupStorefrontFlow(t)
	ctx := context.Background()
	client := env.client(t)

	if err := client.Health(ctx); err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if _, err := client.Register(ctx, storefront.RegisterInput{
		Email:     "olena@example.com",
		Password:  "lacey-secret-42",
		FirstName: "Olena",
		LastName:  "Koval",
		Phone:     "+380501112233",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	cart := storefront.NewCartStore(client, nil)
	promo := storefront.NewPromoEvaluator(client, nil)
	if err := cart.Add(ctx, env.bra.ID, 2, storefront.Variant{Size: "M", Color: "black"}); err != nil {
		t.Fatalf("add bra failed: %v", err)
	}
	if err := cart.Add(ctx, env.briefs.ID, 1, storefront.Variant{Size: "S", Color: "red"}); err != nil {
		t.Fatalf("add briefs failed: %v", err)
	}
	if err := cart.Add(ctx, env.briefs.ID, -1, storefront.Variant{Size: "S", Color: "red"}); !errors.Is(err, storefront.ErrQuantityBelowOne) {
		t.Fatalf("expected local quantity guard, got %v", err)
	}

	if _, err := promo.Apply(ctx, "nope"); !errors.Is(err, storefront.ErrPromoInvalid) {
		t.Fatalf("expected invalid promo, got %v", err)
	}
	discount, err := promo.Apply(ctx, "save20")
	if err != nil {
		t.Fatalf("apply promo failed: %v", err)
	}
	if !discount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected discount: %s", discount)
	}

	checkout := storefront.NewCheckout(client, cart, promo)
	if err := checkout.LoadOptions(ctx); err != nil {
		t.Fatalf("load options failed: %v", err)
	}
	if err := checkout.Prefill(ctx); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if got := checkout.Summary().Total.StringFixed(2); got != "145.00" {
		t.Fatalf("unexpected summary total: %s", got)
	}
	for i := 0; i < 3; i++ {
		if err := checkout.Next(ctx); err != nil {
			t.Fatalf("next step %d failed: %v", i, err)
		}
	}

	order := checkout.Confirmation()
	if order == nil || checkout.Step() != storefront.StepSubmitted {
		t.Fatalf("expected submitted checkout, step=%s", checkout.Step())
	}
	if order.Total.StringFixed(2) != "145.00" || order.PromoCode != "SAVE20" {
		t.Fatalf("unexpected order: total=%s promo=%s", order.Total.StringFixed(2), order.PromoCode)
	}
	if order.Email != "olena@example.com" {
		t.Fatalf("expected prefilled email, got %q", order.Email)
	}
	if len(cart.Lines()) != 0 {
		t.Fatalf("expected empty local cart")
	}

	var cartRows int64
	if err := env.db.Model(&models.CartItem{}).Count(&cartRows).Error; err != nil {
		t.Fatalf("count cart rows failed: %v", err)
	}
	if cartRows != 0 {
		t.Fatalf("expected server cart cleared, got %d rows", cartRows)
	}
	var bra models.Product
	if err := env.db.First(&bra, env.bra.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if bra.Stock != 8 {
		t.Fatalf("expected stock 8, got %d", bra.Stock)
	}

	orders, err := client.ListOrders(ctx, 1, 10)
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderNo != order.OrderNo {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}

func TestStorefrontEmptyCartNeverReachesOrderEndpoint(t *testing.T) {
	env := setupStorefrontFlow(t)
	ctx := context.Background()
	client := env.client(t)
	if _, err := client.Register(ctx, storefront.RegisterInput{
		Email: "iryna@example.com", Password: "lacey-secret-42", FirstName: "Iryna", LastName: "S", Phone: "1",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	cart := storefront.NewCartStore(client, nil)
	if err := cart.Fetch(ctx); err != nil {
		t.Fatalf("fetch cart failed: %v", err)
	}
	checkout := storefront.NewCheckout(client, cart, nil)
	if err := checkout.Prefill(ctx); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	_ = checkout.Next(ctx)
	_ = checkout.Next(ctx)
	if err := checkout.Next(ctx); !errors.Is(err, storefront.ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}

	var orderRows int64
	if err := env.db.Model(&models.Order{}).Count(&orderRows).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderRows != 0 {
		t.Fatalf("expected no orders, got %d", orderRows)
	}
}

func TestStorefrontExpiredTokenDropsSession(t *testing.T) {
	env := setupStorefrontFlow(t)
	dropped := false
	client, err := storefront.NewClient(
		storefront.Config{BaseURL: env.server.URL + "/api/v1"},
		storefront.WithToken("not-a-jwt"),
		storefront.WithUnauthorizedHook(func() { dropped = true }),
	)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}

	if _, err := client.GetCart(context.Background()); !errors.Is(err, storefront.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if !dropped || client.Token() != "" {
		t.Fatalf("expected session dropped")
	}
}
