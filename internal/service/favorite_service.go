package service

import (
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/repository"
)

// FavoriteItem 收藏项（响应用）
type FavoriteItem struct {
	ProductID uint         `json:"productId"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	SalePrice models.Money `json:"salePrice"`
	Image     string       `json:"image,omitempty"`
}

// FavoriteService 收藏服务
type FavoriteService struct {
	repo        repository.FavoriteRepository
	productRepo repository.ProductRepository
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(repo repository.FavoriteRepository, productRepo repository.ProductRepository) *FavoriteService {
	return &FavoriteService{repo: repo, productRepo: productRepo}
}

// List 获取收藏列表，下架商品不展示
func (s *FavoriteService) List(userID uint) ([]FavoriteItem, error) {
	rows, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	items := make([]FavoriteItem, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil || !row.Product.IsActive {
			continue
		}
		item := FavoriteItem{
			ProductID: row.ProductID,
			Name:      row.Product.Name,
			Price:     row.Product.PriceAmount,
			SalePrice: row.Product.SalePrice(),
		}
		if len(row.Product.Images) > 0 {
			item.Image = row.Product.Images[0]
		}
		items = append(items, item)
	}
	return items, nil
}

// Add 添加收藏（幂等）
func (s *FavoriteService) Add(userID, productID uint) ([]FavoriteItem, error) {
	if productID == 0 {
		return nil, ErrFavoriteNotFound
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	if err := s.repo.Add(userID, productID); err != nil {
		return nil, err
	}
	return s.List(userID)
}

// Remove 取消收藏（幂等）
func (s *FavoriteService) Remove(userID, productID uint) ([]FavoriteItem, error) {
	if err := s.repo.Remove(userID, productID); err != nil {
		return nil, err
	}
	return s.List(userID)
}
