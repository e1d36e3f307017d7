package provider

import (
	"time"

	"github.com/lingerie-shop/internal/authz"
	"github.com/lingerie-shop/internal/cache"
	"github.com/lingerie-shop/internal/config"
	"github.com/lingerie-shop/internal/logger"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/queue"
	"github.com/lingerie-shop/internal/repository"
	"github.com/lingerie-shop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo       repository.UserRepository
	CategoryRepo   repository.CategoryRepository
	ProductRepo    repository.ProductRepository
	CartRepo       repository.CartRepository
	FavoriteRepo   repository.FavoriteRepository
	PromoCodeRepo  repository.PromoCodeRepository
	PromoUsageRepo repository.PromoUsageRepository
	OrderRepo      repository.OrderRepository

	// Services
	AuthzService        *authz.Service
	UserAuthService     *service.UserAuthService
	EmailService        *service.EmailService
	CategoryService     *service.CategoryService
	ProductService      *service.ProductService
	CartService         *service.CartService
	FavoriteService     *service.FavoriteService
	PromoService        *service.PromoService
	PromoAdminService   *service.PromoAdminService
	CheckoutOptions     *service.CheckoutOptionsService
	OrderService        *service.OrderService
	NotificationService *service.OrderNotificationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.FavoriteRepo = repository.NewFavoriteRepository(db)
	c.PromoCodeRepo = repository.NewPromoCodeRepository(db)
	c.PromoUsageRepo = repository.NewPromoUsageRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	productTTL := time.Duration(c.Config.Cache.ProductTTLSeconds) * time.Second
	lockTTL := time.Duration(c.Config.Checkout.CartLockTTLSeconds) * time.Second

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, productTTL)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, lockTTL)
	c.FavoriteService = service.NewFavoriteService(c.FavoriteRepo, c.ProductRepo)
	c.PromoService = service.NewPromoService(c.PromoCodeRepo, c.PromoUsageRepo)
	c.PromoAdminService = service.NewPromoAdminService(c.PromoCodeRepo)
	c.CheckoutOptions = service.NewCheckoutOptionsService(c.Config.Checkout)

	var tasks service.OrderTaskQueue
	if c.QueueClient != nil {
		tasks = c.QueueClient
	}
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.CartRepo,
		c.PromoCodeRepo,
		c.PromoUsageRepo,
		c.CheckoutOptions,
		c.ProductService,
		tasks,
	)
	c.NotificationService = service.NewOrderNotificationService(c.OrderService, c.EmailService)
}

// GrantDefaultAdminRoles 为尚未分配角色的管理员授予店主角色
func (c *Container) GrantDefaultAdminRoles(admin *models.User) {
	if c == nil || c.AuthzService == nil || admin == nil || admin.ID == 0 {
		return
	}
	if err := c.AuthzService.EnsureUserRoles(admin.ID, authz.RoleStoreOwner); err != nil {
		logger.Warnw("provider_grant_admin_roles_failed", "user_id", admin.ID, "error", err)
	}
}
