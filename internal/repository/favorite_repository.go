package repository

import (
	"github.com/lingerie-shop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository 收藏数据访问接口
type FavoriteRepository interface {
	ListByUser(userID uint) ([]models.Favorite, error)
	Add(userID, productID uint) error
	Remove(userID, productID uint) error
}

// GormFavoriteRepository GORM 实现
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建收藏仓库
func NewFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// ListByUser 获取用户收藏
func (r *GormFavoriteRepository) ListByUser(userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := r.db.Preload("Product").Where("user_id = ?", userID).Order("id asc").Find(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}

// Add 添加收藏，重复添加不报错
func (r *GormFavoriteRepository) Add(userID, productID uint) error {
	favorite := models.Favorite{UserID: userID, ProductID: productID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error
}

// Remove 取消收藏
func (r *GormFavoriteRepository) Remove(userID, productID uint) error {
	return r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.Favorite{}).Error
}
