package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"service-connect-server/models"
	"service-connect-server/types"
	"service-connect-server/utils"
)

// AdminService manages administrator accounts
type AdminService struct {
	db *gorm.DB
}

// NewAdminService creates a new admin service
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Authenticate checks an admin's username and password
func (s *AdminService) Authenticate(ctx context.Context, in models.Credentials) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(in.Username)).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(in.Password, admin.PasswordHash) {
		return nil, ErrUnauthorized
	}
	return &admin, nil
}

// Create adds an administrator
func (s *AdminService) Create(ctx context.Context, in models.AdminCreate) (*models.Admin, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, validation("username is required")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.Admin{Username: username, PasswordHash: hash}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, writeErr(err, fmt.Sprintf("admin %q", username))
	}
	log.Printf("✅ Admin created: %s", username)
	return admin, nil
}

// List returns all administrators
func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// Delete removes another administrator. Admins cannot delete themselves.
func (s *AdminService) Delete(ctx context.Context, actor types.Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if actor.ID == id {
		return fmt.Errorf("%w: admins cannot delete their own account", ErrForbidden)
	}
	res := s.db.WithContext(ctx).Delete(&models.Admin{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("admin", id)
	}
	log.Printf("✅ Admin %d deleted by admin %d", id, actor.ID)
	return nil
}
