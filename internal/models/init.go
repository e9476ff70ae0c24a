package models

import (
	"errors"
	"strings"

	"github.com/shoppingmall/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAdminPassword = "admin123456"

// InitDefaultAdmin 确保存在默认管理员账号，返回该用户
func InitDefaultAdmin(name, password string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "admin"
	}

	var existing User
	err := DB.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := User{
		Name:         name,
		PasswordHash: string(hash),
		Sex:          "m",
		LoginStatus:  "offline",
	}
	if err := DB.Create(&user).Error; err != nil {
		return nil, err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "name", name)
		logger.Warnw("default_admin_password_change_required", "name", name)
	} else {
		logger.Warnw("default_admin_created", "name", name, "password_hidden", true)
	}
	return &user, nil
}
