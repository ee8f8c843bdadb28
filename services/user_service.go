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

// UserService handles customer accounts and their saved locations
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user account
func (s *UserService) Register(ctx context.Context, in models.UserSignUp) (*models.User, error) {
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Mobile:       strings.TrimSpace(in.Mobile),
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, writeErr(err, "email")
	}
	log.Printf("✅ User registered: %d", user.ID)
	return user, nil
}

// Authenticate checks a user's email and password
func (s *UserService) Authenticate(ctx context.Context, in models.UserLogin) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(in.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(in.Password, user.PasswordHash) {
		return nil, ErrUnauthorized
	}
	return &user, nil
}

// Get loads the acting user's account with locations
func (s *UserService) Get(ctx context.Context, actor types.Actor) (*models.User, error) {
	if !actor.IsUser() {
		return nil, ErrForbidden
	}
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Locations").First(&user, actor.ID).Error; err != nil {
		return nil, lookupErr(err, "user", actor.ID)
	}
	return &user, nil
}

// ListUsers returns every user, newest first
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreateLocation saves a new address for the acting user
func (s *UserService) CreateLocation(ctx context.Context, actor types.Actor, in models.LocationRequest) (*models.UserLocation, error) {
	if !actor.IsUser() {
		return nil, ErrForbidden
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return nil, validation("address is required")
	}
	location := &models.UserLocation{
		UserID:  actor.ID,
		Address: address,
		Pincode: strings.TrimSpace(in.Pincode),
	}
	if err := s.db.WithContext(ctx).Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// ListLocations returns the acting user's addresses
func (s *UserService) ListLocations(ctx context.Context, actor types.Actor) ([]models.UserLocation, error) {
	if !actor.IsUser() {
		return nil, ErrForbidden
	}
	var locations []models.UserLocation
	if err := s.db.WithContext(ctx).Where("user_id = ?", actor.ID).Order("id ASC").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// UpdateLocation rewrites one of the acting user's addresses
func (s *UserService) UpdateLocation(ctx context.Context, actor types.Actor, id uint, in models.LocationRequest) (*models.UserLocation, error) {
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return nil, validation("address is required")
	}
	db := s.db.WithContext(ctx)
	location, err := s.ownedLocation(db, actor, id)
	if err != nil {
		return nil, err
	}
	location.Address = address
	location.Pincode = strings.TrimSpace(in.Pincode)
	if err := db.Save(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// DeleteLocation removes an address no request points at
func (s *UserService) DeleteLocation(ctx context.Context, actor types.Actor, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		location, err := s.ownedLocation(tx, actor, id)
		if err != nil {
			return err
		}
		var used int64
		if err := tx.Model(&models.Request{}).Where("user_location_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return fmt.Errorf("%w: location %d is used by %d requests", ErrConflict, id, used)
		}
		return tx.Delete(location).Error
	})
}

func (s *UserService) ownedLocation(db *gorm.DB, actor types.Actor, id uint) (*models.UserLocation, error) {
	if !actor.IsUser() {
		return nil, ErrForbidden
	}
	var location models.UserLocation
	if err := db.First(&location, id).Error; err != nil {
		return nil, lookupErr(err, "location", id)
	}
	if location.UserID != actor.ID {
		return nil, fmt.Errorf("%w: location %d belongs to another user", ErrForbidden, id)
	}
	return &location, nil
}
