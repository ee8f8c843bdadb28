package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"service-connect-server/models"
)

// CatalogService manages service categories and the services under them
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// CreateCategory adds a category. Names are unique.
func (s *CatalogService) CreateCategory(ctx context.Context, in models.CategoryCreate) (*models.ServiceCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validation("category name is required")
	}
	category := &models.ServiceCategory{Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, writeErr(err, fmt.Sprintf("category %q", name))
	}
	return category, nil
}

// ListCategories returns every category ordered by name
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteCategory removes a category nothing refers to
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.ServiceCategory
		if err := tx.First(&category, id).Error; err != nil {
			return lookupErr(err, "category", id)
		}

		var services int64
		if err := tx.Model(&models.Service{}).Where("category_id = ?", id).Count(&services).Error; err != nil {
			return err
		}
		var workers int64
		if err := tx.Table("worker_categories").Where("service_category_id = ?", id).Count(&workers).Error; err != nil {
			return err
		}
		if services > 0 || workers > 0 {
			return fmt.Errorf("%w: category %d is used by %d services and %d workers", ErrConflict, id, services, workers)
		}

		return tx.Delete(&category).Error
	})
}

// CreateService adds a service under an existing category
func (s *CatalogService) CreateService(ctx context.Context, in models.ServiceCreate) (*models.Service, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validation("service name is required")
	}

	db := s.db.WithContext(ctx)
	var category models.ServiceCategory
	if err := db.First(&category, in.CategoryID).Error; err != nil {
		return nil, lookupErr(err, "category", in.CategoryID)
	}

	service := &models.Service{
		CategoryID:  category.ID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
	}
	if err := db.Create(service).Error; err != nil {
		return nil, writeErr(err, fmt.Sprintf("service %q", name))
	}
	service.Category = category
	return service, nil
}

// ListServices returns services, optionally narrowed to one category
func (s *CatalogService) ListServices(ctx context.Context, categoryID *uint) ([]models.Service, error) {
	query := s.db.WithContext(ctx).Preload("Category").Order("name ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// GetService loads one service with its category
func (s *CatalogService) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := s.db.WithContext(ctx).Preload("Category").First(&service, id).Error; err != nil {
		return nil, lookupErr(err, "service", id)
	}
	return &service, nil
}
