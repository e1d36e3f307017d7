package main

import (
	"log"
	"time"

	"github.com/lingerie-shop/internal/config"
	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/logger"
	"github.com/lingerie-shop/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	demoUserEmail    = "demo@lingerie.shop"
	demoUserPassword = "Demo#Passw0rd"
)

type productSeed struct {
	slug         string
	category     string
	name         string
	description  string
	price        string
	discount     int
	stock        int
	sizes        []string
	colors       []string
	isNew        bool
	isBestseller bool
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	categoryIDs := seedCategories(stdLog)
	seedProducts(stdLog, categoryIDs)
	seedPromoCodes(stdLog)
	seedDemoUser(stdLog)

	stdLog.Println("Seed data created successfully!")
}

func seedCategories(stdLog *log.Logger) map[string]uint {
	categories := []models.Category{
		{Slug: "bras", Name: "Bras", SortOrder: 40},
		{Slug: "panties", Name: "Panties", SortOrder: 30},
		{Slug: "sets", Name: "Lingerie Sets", SortOrder: 20},
		{Slug: "sleepwear", Name: "Sleepwear", SortOrder: 10},
	}

	ids := make(map[string]uint, len(categories))
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			ids[cat.Slug] = existing.ID
			continue
		}
		if err := models.DB.Create(&cat).Error; err != nil {
			stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			continue
		}
		stdLog.Printf("Created category: %s", cat.Slug)
		ids[cat.Slug] = cat.ID
	}
	return ids
}

func seedProducts(stdLog *log.Logger, categoryIDs map[string]uint) {
	seeds := []productSeed{
		{
			slug: "lace-balconette-bra", category: "bras", name: "Lace Balconette Bra",
			description: "Soft French lace with underwire support.",
			price:       "1290.00", discount: 0, stock: 40,
			sizes: []string{"70B", "75B", "75C", "80C"}, colors: []string{"black", "ivory"},
			isBestseller: true,
		},
		{
			slug: "silk-triangle-bralette", category: "bras", name: "Silk Triangle Bralette",
			description: "Unlined mulberry silk bralette.",
			price:       "990.00", discount: 20, stock: 25,
			sizes: []string{"XS", "S", "M", "L"}, colors: []string{"champagne", "rose"},
			isNew: true,
		},
		{
			slug: "high-waist-brief", category: "panties", name: "High Waist Brief",
			description: "Cotton gusset, lace trim.",
			price:       "450.00", discount: 0, stock: 80,
			sizes: []string{"XS", "S", "M", "L", "XL"}, colors: []string{"black", "nude", "red"},
		},
		{
			slug: "mesh-thong", category: "panties", name: "Mesh Thong",
			description: "Sheer mesh with embroidered waistband.",
			price:       "350.00", discount: 15, stock: 60,
			sizes: []string{"S", "M", "L"}, colors: []string{"black", "white"},
			isBestseller: true,
		},
		{
			slug: "midnight-set", category: "sets", name: "Midnight Set",
			description: "Balconette bra with matching brief.",
			price:       "1890.00", discount: 10, stock: 15,
			sizes: []string{"S", "M", "L"}, colors: []string{"navy"},
			isNew: true,
		},
		{
			slug: "satin-pajama", category: "sleepwear", name: "Satin Pajama",
			description: "Long sleeve shirt and trousers in satin.",
			price:       "2100.00", discount: 0, stock: 12,
			sizes: []string{"S", "M", "L"}, colors: []string{"pearl", "emerald"},
		},
	}

	for i, item := range seeds {
		categoryID, ok := categoryIDs[item.category]
		if !ok {
			stdLog.Printf("Category not found for product %s", item.slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", item.slug).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", item.slug)
			continue
		}
		price, err := decimal.NewFromString(item.price)
		if err != nil {
			stdLog.Printf("Invalid price for product %s: %v", item.slug, err)
			continue
		}
		product := models.Product{
			CategoryID:      categoryID,
			Slug:            item.slug,
			Name:            item.name,
			Description:     item.description,
			PriceAmount:     models.NewMoneyFromDecimal(price),
			DiscountPercent: item.discount,
			Images:          models.StringArray{"/images/" + item.slug + ".jpg"},
			Sizes:           models.StringArray(item.sizes),
			Colors:          models.StringArray(item.colors),
			Stock:           item.stock,
			IsNew:           item.isNew,
			IsBestseller:    item.isBestseller,
			IsActive:        true,
			SortOrder:       len(seeds) - i,
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.slug, err)
			continue
		}
		stdLog.Printf("Created product: %s", item.slug)
	}
}

func seedPromoCodes(stdLog *log.Logger) {
	endsAt := time.Now().AddDate(0, 6, 0)
	promos := []models.PromoCode{
		{
			Code:        "WELCOME10",
			Type:        constants.PromoTypePercent,
			Value:       models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MaxDiscount: models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
			IsActive:    true,
			EndsAt:      &endsAt,
		},
		{
			Code:         "SAVE200",
			Type:         constants.PromoTypeFixed,
			Value:        models.NewMoneyFromDecimal(decimal.NewFromInt(200)),
			MinAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(1500)),
			UsageLimit:   100,
			PerUserLimit: 1,
			IsActive:     true,
		},
	}

	for _, promo := range promos {
		var existing models.PromoCode
		if err := models.DB.Where("code = ?", promo.Code).First(&existing).Error; err == nil {
			stdLog.Printf("Promo code already exists: %s", promo.Code)
			continue
		}
		if err := models.DB.Create(&promo).Error; err != nil {
			stdLog.Printf("Failed to create promo code %s: %v", promo.Code, err)
			continue
		}
		stdLog.Printf("Created promo code: %s", promo.Code)
	}
}

func seedDemoUser(stdLog *log.Logger) {
	var existing models.User
	if err := models.DB.Where("email = ?", demoUserEmail).First(&existing).Error; err == nil {
		stdLog.Printf("Demo user already exists: %s", demoUserEmail)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoUserPassword), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Printf("Failed to hash demo password: %v", err)
		return
	}
	user := models.User{
		Email:        demoUserEmail,
		PasswordHash: string(hash),
		FirstName:    "Olena",
		LastName:     "Demo",
		Phone:        "+380501234567",
		Role:         constants.UserRoleCustomer,
		Status:       constants.UserStatusActive,
		Locale:       "uk-UA",
	}
	if err := models.DB.Create(&user).Error; err != nil {
		stdLog.Printf("Failed to create demo user: %v", err)
		return
	}
	stdLog.Printf("Created demo user: %s / %s", demoUserEmail, demoUserPassword)
}
