package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/vnkhanh/pesquisa-clima/models"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Login checks a username/password pair against the admins table. Wrong username and
// wrong password produce the same error.
func (s *AdminService) Login(ctx context.Context, username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var a models.Admin
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storageErr("find admin", err)
	}
	if subtle.ConstantTimeCompare([]byte(a.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return &a, nil
}
