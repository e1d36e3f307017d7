package models

import (
	"strings"

	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAdminEmail    = "admin@lingerie.local"
	defaultAdminPassword = "admin12345"
)

// InitDefaultAdmin 初始化默认管理员账号，返回管理员用户
func InitDefaultAdmin(email, password string) (*User, error) {
	var existing User
	err := DB.Where("role = ?", constants.UserRoleAdmin).Order("id asc").Limit(1).Find(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing.ID != 0 {
		return &existing, nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = defaultAdminEmail
	}
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Store",
		LastName:     "Admin",
		Role:         constants.UserRoleAdmin,
		Status:       constants.UserStatusActive,
		Locale:       "en-US",
	}
	if err := DB.Create(&admin).Error; err != nil {
		return nil, err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return &admin, nil
}
