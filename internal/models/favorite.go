package models

import "time"

// Favorite 收藏
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                          // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"userId"`  // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"productId"` // 商品ID
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                                        // 创建时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (Favorite) TableName() string {
	return "favorites"
}
