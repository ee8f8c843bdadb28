package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"service-connect-server/models"
	"service-connect-server/types"
	"service-connect-server/utils"
)

// MatchingService decides which open requests a worker can see and, the
// other way round, which workers a new request is broadcast to. A request
// matches a worker when it is pending and unassigned, its service belongs to
// one of the worker's categories, and its location pincode is an integer
// within the worker's pincode plus or minus radius.
type MatchingService struct {
	db *gorm.DB
}

// NewMatchingService creates a new matching service
func NewMatchingService(db *gorm.DB) *MatchingService {
	return &MatchingService{db: db}
}

// matchProfile is a worker's complete matching profile
type matchProfile struct {
	pincode    int
	radius     int
	categories []uint
}

// profileOf checks that the worker has pincode, radius and categories set
func profileOf(w *models.Worker) (matchProfile, error) {
	var missing []string
	var p matchProfile

	if w.Pincode == nil {
		missing = append(missing, "pincode")
	} else if n, ok := utils.ParsePincode(*w.Pincode); ok {
		p.pincode = n
	} else {
		missing = append(missing, "pincode")
	}
	if w.Radius == nil {
		missing = append(missing, "radius")
	} else {
		p.radius = *w.Radius
	}
	p.categories = w.CategoryIDs()
	if len(p.categories) == 0 {
		missing = append(missing, "categories")
	}

	if len(missing) > 0 {
		return matchProfile{}, &ProfileIncompleteError{Missing: missing}
	}
	return p, nil
}

// ListOpenRequestsForWorker returns the open requests visible to the worker,
// newest first.
func (s *MatchingService) ListOpenRequestsForWorker(ctx context.Context, actor types.Actor) ([]models.Request, error) {
	if !actor.IsWorker() {
		return nil, ErrForbidden
	}
	db := s.db.WithContext(ctx)
	worker, err := getWorker(db, actor.ID)
	if err != nil {
		return nil, err
	}
	if !worker.IsApproved() {
		return nil, fmt.Errorf("%w: worker %d is %s", ErrForbidden, worker.ID, worker.Status)
	}
	profile, err := profileOf(worker)
	if err != nil {
		return nil, err
	}

	var candidates []models.Request
	err = db.
		Joins("JOIN services ON services.id = requests.service_id").
		Preload("Service.Category").
		Preload("UserLocation").
		Where("requests.status = ? AND requests.worker_id IS NULL", models.RequestStatusPending).
		Where("services.category_id IN ?", profile.categories).
		Order("requests.created_at DESC, requests.id DESC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	open := make([]models.Request, 0, len(candidates))
	for _, r := range candidates {
		if utils.WithinBand(r.UserLocation.Pincode, profile.pincode, profile.radius) {
			open = append(open, r)
		}
	}
	return open, nil
}

// EligibleWorkersForRequest returns the approved workers with a complete
// profile that would see the request in their open list.
func (s *MatchingService) EligibleWorkersForRequest(ctx context.Context, request *models.Request) ([]models.Worker, error) {
	if request.Status != models.RequestStatusPending || request.WorkerID != nil {
		return nil, nil
	}
	db := s.db.WithContext(ctx)

	var service models.Service
	if err := db.First(&service, request.ServiceID).Error; err != nil {
		return nil, lookupErr(err, "service", request.ServiceID)
	}
	var location models.UserLocation
	if err := db.First(&location, request.UserLocationID).Error; err != nil {
		return nil, lookupErr(err, "location", request.UserLocationID)
	}
	if _, ok := utils.ParsePincode(location.Pincode); !ok {
		return nil, nil
	}

	var candidates []models.Worker
	err := db.
		Joins("JOIN worker_categories ON worker_categories.worker_id = workers.id").
		Where("worker_categories.service_category_id = ?", service.CategoryID).
		Where("workers.status = ? AND workers.pincode IS NOT NULL AND workers.radius IS NOT NULL", models.WorkerStatusApproved).
		Order("workers.id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	eligible := make([]models.Worker, 0, len(candidates))
	for _, w := range candidates {
		center, ok := utils.ParsePincode(*w.Pincode)
		if !ok {
			continue
		}
		if utils.WithinBand(location.Pincode, center, *w.Radius) {
			eligible = append(eligible, w)
		}
	}
	return eligible, nil
}
