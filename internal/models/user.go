package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                   // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`                      // 邮箱
	PasswordHash       string         `gorm:"not null" json:"-"`                                      // 密码哈希（不返回给前端）
	FirstName          string         `gorm:"type:varchar(100);default:''" json:"firstName"`          // 名
	LastName           string         `gorm:"type:varchar(100);default:''" json:"lastName"`           // 姓
	Phone              string         `gorm:"type:varchar(32);default:''" json:"phone"`               // 手机号
	Locale             string         `gorm:"type:varchar(20);default:'en-US'" json:"locale"`         // 语言偏好
	Role               string         `gorm:"type:varchar(20);not null;default:'customer'" json:"role"` // 角色（customer/admin）
	Status             string         `gorm:"type:varchar(20);default:'active'" json:"status"`        // 账号状态
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                            // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                         // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"lastLoginAt,omitempty"`                                  // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"createdAt"`                                 // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updatedAt"`                                 // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// FullName 返回展示用姓名
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
