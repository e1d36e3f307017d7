package repository

import (
	"errors"

	"github.com/lingerie-shop/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartItem, error)
	GetLine(userID, productID uint, size, color string) (*models.CartItem, error)
	Create(item *models.CartItem) error
	AdjustQuantity(id uint, delta int) (int64, error)
	DeleteLine(userID, productID uint, size, color string) error
	DeleteByUserAndProduct(userID, productID uint) error
	DeleteByIDs(ids []uint) error
	ClearByUser(userID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser 获取用户购物车项（按加入顺序）
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("user_id = ?", userID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetLine 获取指定规格的购物车行
func (r *GormCartRepository) GetLine(userID, productID uint, size, color string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?", userID, productID, size, color).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 新增购物车行
func (r *GormCartRepository) Create(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	return r.db.Create(item).Error
}

// AdjustQuantity 原子调整数量，结果小于 1 时不更新（影响行数为 0）
func (r *GormCartRepository) AdjustQuantity(id uint, delta int) (int64, error) {
	result := r.db.Model(&models.CartItem{}).
		Where("id = ? AND quantity + ? >= 1", id, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteLine 删除指定规格的购物车行
func (r *GormCartRepository) DeleteLine(userID, productID uint, size, color string) error {
	return r.db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?", userID, productID, size, color).
		Delete(&models.CartItem{}).Error
}

// DeleteByUserAndProduct 删除商品的全部规格行
func (r *GormCartRepository) DeleteByUserAndProduct(userID, productID uint) error {
	return r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{}).Error
}

// DeleteByIDs 批量删除购物车行
func (r *GormCartRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&models.CartItem{}).Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
