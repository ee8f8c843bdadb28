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

// WorkerService handles worker accounts, approval and matching profiles
type WorkerService struct {
	db *gorm.DB
}

// NewWorkerService creates a new worker service
func NewWorkerService(db *gorm.DB) *WorkerService {
	return &WorkerService{db: db}
}

// Register creates a worker in pending status
func (s *WorkerService) Register(ctx context.Context, in models.WorkerSignUp) (*models.Worker, error) {
	pincode, err := normalizePincode(in.Pincode)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	worker := &models.Worker{
		Username:       strings.TrimSpace(in.Username),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		EmployeeNumber: strings.TrimSpace(in.EmployeeNumber),
		Mobile:         strings.TrimSpace(in.Mobile),
		PasswordHash:   hash,
		Status:         models.WorkerStatusPending,
		Pincode:        pincode,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, err := loadCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}
		if err := tx.Omit("Categories").Create(worker).Error; err != nil {
			return writeErr(err, "username, email or employee number")
		}
		if len(categories) > 0 {
			if err := tx.Model(worker).Association("Categories").Replace(categories); err != nil {
				return err
			}
		}
		worker.Categories = categories
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Worker registered: %d (pending approval)", worker.ID)
	return worker, nil
}

// Authenticate checks credentials. Only approved workers may sign in.
func (s *WorkerService) Authenticate(ctx context.Context, in models.Credentials) (*models.Worker, error) {
	var worker models.Worker
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(in.Username)).First(&worker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(in.Password, worker.PasswordHash) {
		return nil, ErrUnauthorized
	}
	if !worker.IsApproved() {
		return nil, fmt.Errorf("%w: worker account is %s", ErrForbidden, worker.Status)
	}
	return &worker, nil
}

// Get loads a worker with its categories
func (s *WorkerService) Get(ctx context.Context, id uint) (*models.Worker, error) {
	return getWorker(s.db.WithContext(ctx), id)
}

// UpdateProfile applies a partial update. A category set, when given,
// replaces the old one; any unknown id rejects the whole update.
func (s *WorkerService) UpdateProfile(ctx context.Context, actor types.Actor, in models.WorkerProfileUpdate) (*models.Worker, error) {
	if !actor.IsWorker() {
		return nil, ErrForbidden
	}
	if in.Radius != nil && *in.Radius < 0 {
		return nil, validation("radius must not be negative")
	}
	pincode, err := normalizePincode(in.Pincode)
	if err != nil {
		return nil, err
	}

	var worker *models.Worker
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		worker, err = getWorker(tx, actor.ID)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if in.Email != nil {
			updates["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
		}
		if in.Mobile != nil {
			updates["mobile"] = strings.TrimSpace(*in.Mobile)
		}
		if in.Pincode != nil {
			updates["pincode"] = pincode
		}
		if in.Radius != nil {
			updates["radius"] = *in.Radius
		}
		if len(updates) > 0 {
			if err := tx.Model(worker).Updates(updates).Error; err != nil {
				return writeErr(err, "email")
			}
		}

		if in.CategoryIDs != nil {
			categories, err := loadCategories(tx, in.CategoryIDs)
			if err != nil {
				return err
			}
			assoc := tx.Model(worker).Association("Categories")
			if len(categories) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(categories)
			}
			if err != nil {
				return err
			}
		}

		worker, err = getWorker(tx, actor.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return worker, nil
}

// SetProfilePhoto records the URL of an uploaded profile photo
func (s *WorkerService) SetProfilePhoto(ctx context.Context, actor types.Actor, url string) (*models.Worker, error) {
	if !actor.IsWorker() {
		return nil, ErrForbidden
	}
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Worker{}).Where("id = ?", actor.ID).Update("profile_photo_url", url)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound("worker", actor.ID)
	}
	return getWorker(db, actor.ID)
}

// ListWorkers returns workers, optionally filtered by approval status
func (s *WorkerService) ListWorkers(ctx context.Context, status *models.WorkerStatus) ([]models.Worker, error) {
	query := s.db.WithContext(ctx).Preload("Categories").Order("created_at DESC, id DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var workers []models.Worker
	if err := query.Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

// SetStatus approves or rejects a worker
func (s *WorkerService) SetStatus(ctx context.Context, id uint, status models.WorkerStatus) (*models.Worker, error) {
	if status != models.WorkerStatusApproved && status != models.WorkerStatusRejected {
		return nil, validation("worker status must be approved or rejected, got %q", status)
	}
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Worker{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound("worker", id)
	}
	log.Printf("✅ Worker %d status set to %s", id, status)
	return getWorker(db, id)
}

func getWorker(db *gorm.DB, id uint) (*models.Worker, error) {
	var worker models.Worker
	if err := db.Preload("Categories").First(&worker, id).Error; err != nil {
		return nil, lookupErr(err, "worker", id)
	}
	return &worker, nil
}

// loadCategories resolves ids to categories, failing if any id is unknown
func loadCategories(db *gorm.DB, ids []uint) ([]models.ServiceCategory, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return []models.ServiceCategory{}, nil
	}

	var categories []models.ServiceCategory
	if err := db.Where("id IN ?", unique).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(unique) {
		found := make(map[uint]bool, len(categories))
		for _, c := range categories {
			found[c.ID] = true
		}
		var missing []string
		for _, id := range unique {
			if !found[id] {
				missing = append(missing, fmt.Sprint(id))
			}
		}
		return nil, validation("unknown category ids: %s", strings.Join(missing, ", "))
	}
	return categories, nil
}

// normalizePincode trims a worker pincode and checks it is all digits.
// An empty value clears the pincode.
func normalizePincode(p *string) (*string, error) {
	if p == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil, nil
	}
	if _, ok := utils.ParsePincode(v); !ok {
		return nil, validation("pincode must contain digits only, got %q", v)
	}
	return &v, nil
}
