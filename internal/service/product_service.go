package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lingerie-shop/internal/cache"
	"github.com/lingerie-shop/internal/logger"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const defaultProductCacheTTL = 5 * time.Minute

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cacheTTL     time.Duration
	group        singleflight.Group
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, cacheTTL time.Duration) *ProductService {
	if cacheTTL <= 0 {
		cacheTTL = defaultProductCacheTTL
	}
	return &ProductService{repo: repo, categoryRepo: categoryRepo, cacheTTL: cacheTTL}
}

// CreateProductInput 创建/更新商品输入
type CreateProductInput struct {
	CategoryID      uint
	Slug            string
	Name            string
	Description     string
	PriceAmount     decimal.Decimal
	DiscountPercent int
	Images          []string
	Sizes           []string
	Colors          []string
	Stock           int
	IsNew           bool
	IsBestseller    bool
	IsActive        *bool
	SortOrder       int
}

// PublicProductQuery 前台商品查询条件
type PublicProductQuery struct {
	CategoryID uint
	Search     string
	OnSale     bool
	IsNew      bool
	Bestseller bool
	Page       int
	PageSize   int
}

// ListPublic 获取上架商品列表
func (s *ProductService) ListPublic(query PublicProductQuery) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:         query.Page,
		PageSize:     query.PageSize,
		CategoryID:   query.CategoryID,
		Search:       strings.TrimSpace(query.Search),
		OnSale:       query.OnSale,
		IsNew:        query.IsNew,
		Bestseller:   query.Bestseller,
		OnlyActive:   true,
		WithCategory: true,
	})
}

// GetPublic 获取上架商品详情，读缓存并合并并发未命中
func (s *ProductService) GetPublic(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	key := productCacheKey(id)
	var cached models.Product
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		if !cached.IsActive {
			return nil, ErrProductNotFound
		}
		return &cached, nil
	} else if err != nil {
		logger.Warnw("product_cache_read_failed", "product_id", id, "error", err)
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		product, err := s.repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		if err := cache.SetJSON(ctx, key, product, s.cacheTTL); err != nil {
			logger.Warnw("product_cache_write_failed", "product_id", id, "error", err)
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	product := value.(*models.Product)
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListAdmin 获取后台商品列表
func (s *ProductService) ListAdmin(search string, categoryID uint, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		Search:       strings.TrimSpace(search),
		WithCategory: true,
	})
}

// GetAdminByID 获取后台商品详情
func (s *ProductService) GetAdminByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input CreateProductInput) (*models.Product, error) {
	product := &models.Product{IsActive: true}
	if err := s.apply(product, input, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input CreateProductInput) (*models.Product, error) {
	product, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(product, input, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	if _, err := s.GetAdminByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *ProductService) apply(product *models.Product, input CreateProductInput, excludeID uint) error {
	validation := &ValidationError{}
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	name := strings.TrimSpace(input.Name)
	price := input.PriceAmount.Round(2)
	if slug == "" {
		validation.Add("slug", "validation.required")
	}
	if name == "" {
		validation.Add("name", "validation.required")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		validation.Add("price", "validation.gte")
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 90 {
		validation.Add("discountPercent", "validation.lte")
	}
	if input.Stock < 0 {
		validation.Add("stock", "validation.gte")
	}
	if err := validation.OrNil(); err != nil {
		return err
	}

	count, err := s.repo.CountBySlug(slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	if s.categoryRepo != nil {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound
		}
	}

	product.CategoryID = input.CategoryID
	product.Slug = slug
	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.PriceAmount = models.NewMoneyFromDecimal(price)
	product.DiscountPercent = input.DiscountPercent
	product.Images = normalizeStringList(input.Images)
	product.Sizes = normalizeStringList(input.Sizes)
	product.Colors = normalizeStringList(input.Colors)
	product.Stock = input.Stock
	product.IsNew = input.IsNew
	product.IsBestseller = input.IsBestseller
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.Category = nil
	return nil
}

// InvalidateProducts 清除商品缓存，库存变动后调用
func (s *ProductService) InvalidateProducts(ids ...uint) {
	for _, id := range ids {
		s.invalidate(id)
	}
}

func (s *ProductService) invalidate(id uint) {
	if err := cache.Del(context.Background(), productCacheKey(id)); err != nil {
		logger.Warnw("product_cache_invalidate_failed", "product_id", id, "error", err)
	}
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%s", strconv.FormatUint(uint64(id), 10))
}

func normalizeStringList(items []string) models.StringArray {
	result := make(models.StringArray, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
