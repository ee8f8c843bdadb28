package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"service-connect-server/models"
	"service-connect-server/types"
)

// RequestService drives a request through its lifecycle:
// pending -> accepted -> inprogress -> completed, with cancelled reachable
// from accepted and inprogress. A worker is bound exactly once, when the
// owner accepts one of the quotes.
type RequestService struct {
	db       *gorm.DB
	matching *MatchingService
	notifier Notifier
}

// NewRequestService creates a new request service
func NewRequestService(db *gorm.DB, matching *MatchingService, notifier Notifier) *RequestService {
	return &RequestService{db: db, matching: matching, notifier: notifier}
}

// CreateRequest opens a pending request for the acting user and announces it
// to every eligible worker.
func (s *RequestService) CreateRequest(ctx context.Context, actor types.Actor, in models.RequestCreate) (*models.Request, error) {
	if !actor.IsUser() {
		return nil, ErrForbidden
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, validation("description is required")
	}
	if in.UserQuotedPrice != nil && !validPrice(*in.UserQuotedPrice) {
		return nil, validation("user_quoted_price must be greater than zero")
	}

	db := s.db.WithContext(ctx)
	var service models.Service
	if err := db.First(&service, in.ServiceID).Error; err != nil {
		return nil, lookupErr(err, "service", in.ServiceID)
	}
	var location models.UserLocation
	if err := db.First(&location, in.UserLocationID).Error; err != nil {
		return nil, lookupErr(err, "location", in.UserLocationID)
	}
	if location.UserID != actor.ID {
		return nil, fmt.Errorf("%w: location %d belongs to another user", ErrForbidden, location.ID)
	}

	request := &models.Request{
		UserID:          actor.ID,
		ServiceID:       service.ID,
		UserLocationID:  location.ID,
		Status:          models.RequestStatusPending,
		Description:     description,
		UrgencyLevel:    strings.TrimSpace(in.UrgencyLevel),
		AdditionalNotes: strings.TrimSpace(in.AdditionalNotes),
		UserQuotedPrice: in.UserQuotedPrice,
	}
	if err := db.Omit(clause.Associations).Create(request).Error; err != nil {
		return nil, err
	}
	request.Service = service
	request.UserLocation = location
	log.Printf("✅ Request %d created by user %d", request.ID, actor.ID)

	s.broadcastCreated(ctx, request)
	return request, nil
}

func (s *RequestService) broadcastCreated(ctx context.Context, request *models.Request) {
	if s.matching == nil {
		return
	}
	workers, err := s.matching.EligibleWorkersForRequest(ctx, request)
	if err != nil {
		log.Printf("⚠️ Could not resolve workers for request %d: %v", request.ID, err)
		return
	}
	payload := map[string]any{
		"request_id":        request.ID,
		"service_id":        request.ServiceID,
		"service_name":      request.Service.Name,
		"description":       request.Description,
		"urgency_level":     request.UrgencyLevel,
		"user_quoted_price": request.UserQuotedPrice,
		"pincode":           request.UserLocation.Pincode,
		"created_at":        request.CreatedAt,
	}
	for _, w := range workers {
		notify(s.notifier, types.Actor{ID: w.ID, Role: types.RoleWorker}, EventRequestCreated, payload)
	}
	log.Printf("📡 Request %d announced to %d workers", request.ID, len(workers))
}

// AcceptQuote binds the quoting worker to the request at the quoted price.
// Of several concurrent acceptances on one request exactly one wins; the
// rest get ErrAlreadyAssigned.
func (s *RequestService) AcceptQuote(ctx context.Context, actor types.Actor, requestID, quoteID uint) (*models.Request, error) {
	if !actor.IsUser() {
		return nil, ErrForbidden
	}

	var request models.Request
	var quote models.RequestQuote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, requestID).Error; err != nil {
			return lookupErr(err, "request", requestID)
		}
		if request.UserID != actor.ID {
			return fmt.Errorf("%w: request %d belongs to another user", ErrForbidden, requestID)
		}
		if err := tx.Where("id = ? AND request_id = ?", quoteID, requestID).First(&quote).Error; err != nil {
			return lookupErr(err, "quote", quoteID)
		}
		if request.WorkerID != nil {
			return fmt.Errorf("%w: request %d", ErrAlreadyAssigned, requestID)
		}

		res := tx.Model(&models.Request{}).
			Where("id = ? AND worker_id IS NULL AND status = ?", requestID, models.RequestStatusPending).
			Updates(map[string]any{
				"worker_id":         quote.WorkerID,
				"final_price":       quote.WorkerQuotedPrice,
				"accepted_quote_id": quote.ID,
				"status":            models.RequestStatusAccepted,
				"updated_at":        time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}

		if err := tx.First(&request, requestID).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			if request.WorkerID != nil {
				return fmt.Errorf("%w: request %d", ErrAlreadyAssigned, requestID)
			}
			return &InvalidTransitionError{From: request.Status, To: models.RequestStatusAccepted}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request %d accepted: quote %d, worker %d", request.ID, quote.ID, quote.WorkerID)
	notify(s.notifier, types.Actor{ID: quote.WorkerID, Role: types.RoleWorker}, EventQuoteAccepted, map[string]any{
		"request_id":  request.ID,
		"quote_id":    quote.ID,
		"final_price": quote.WorkerQuotedPrice,
		"status":      request.Status,
	})
	return &request, nil
}

// AdvanceStatus moves an accepted or in-progress request forward on behalf of
// its assigned worker.
func (s *RequestService) AdvanceStatus(ctx context.Context, actor types.Actor, requestID uint, rawTarget string) (*models.Request, error) {
	target, err := models.ParseRequestStatus(rawTarget)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !actor.IsWorker() {
		return nil, ErrForbidden
	}
	var worker models.Worker
	if err := s.db.WithContext(ctx).First(&worker, actor.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: worker %d does not exist", ErrForbidden, actor.ID)
		}
		return nil, err
	}
	if !worker.IsApproved() {
		return nil, fmt.Errorf("%w: worker %d is %s", ErrForbidden, worker.ID, worker.Status)
	}

	var request models.Request
	var previous models.RequestStatus
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, requestID).Error; err != nil {
			return lookupErr(err, "request", requestID)
		}
		if request.WorkerID == nil || *request.WorkerID != actor.ID {
			return fmt.Errorf("%w: request %d is not assigned to worker %d", ErrForbidden, requestID, actor.ID)
		}
		previous = request.Status
		if !models.CanTransition(previous, target) {
			return &InvalidTransitionError{From: previous, To: target}
		}

		now := time.Now()
		updates := map[string]any{"status": target, "updated_at": now}
		switch target {
		case models.RequestStatusInProgress:
			updates["started_at"] = now
		case models.RequestStatusCompleted:
			updates["completed_at"] = now
		case models.RequestStatusCancelled:
			updates["cancelled_at"] = now
		}

		res := tx.Model(&models.Request{}).
			Where("id = ? AND status = ? AND worker_id = ?", requestID, previous, actor.ID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if err := tx.First(&request, requestID).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return &InvalidTransitionError{From: request.Status, To: target}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request %d moved %s -> %s by worker %d", request.ID, previous, request.Status, actor.ID)
	notify(s.notifier, types.Actor{ID: request.UserID, Role: types.RoleUser}, EventRequestStatusChanged, map[string]any{
		"request_id":      request.ID,
		"previous_status": previous,
		"status":          request.Status,
		"worker_id":       actor.ID,
		"updated_at":      request.UpdatedAt,
	})
	return &request, nil
}

// GetRequest loads a request visible to the actor: its owner, its assigned
// worker, or an admin.
func (s *RequestService) GetRequest(ctx context.Context, actor types.Actor, requestID uint) (*models.Request, error) {
	var request models.Request
	err := s.db.WithContext(ctx).
		Preload("Service.Category").
		Preload("UserLocation").
		First(&request, requestID).Error
	if err != nil {
		return nil, lookupErr(err, "request", requestID)
	}

	switch {
	case actor.IsAdmin():
	case actor.IsUser() && request.UserID == actor.ID:
	case actor.IsWorker() && request.WorkerID != nil && *request.WorkerID == actor.ID:
	default:
		return nil, fmt.Errorf("%w: request %d", ErrForbidden, requestID)
	}
	return &request, nil
}

// ListRequestsForUser returns the acting user's requests, newest first
func (s *RequestService) ListRequestsForUser(ctx context.Context, actor types.Actor) ([]models.Request, error) {
	if !actor.IsUser() {
		return nil, ErrForbidden
	}
	return s.list(ctx, "requests.user_id = ?", actor.ID)
}

// ListAssignedRequests returns the requests bound to the acting worker
func (s *RequestService) ListAssignedRequests(ctx context.Context, actor types.Actor) ([]models.Request, error) {
	if !actor.IsWorker() {
		return nil, ErrForbidden
	}
	return s.list(ctx, "requests.worker_id = ?", actor.ID)
}

// ListAllRequests returns every request, most recently updated first
func (s *RequestService) ListAllRequests(ctx context.Context, status *models.RequestStatus) ([]models.Request, error) {
	query := s.db.WithContext(ctx).
		Preload("Service").
		Preload("UserLocation").
		Order("requests.updated_at DESC, requests.id DESC")
	if status != nil {
		query = query.Where("requests.status = ?", *status)
	}
	var requests []models.Request
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *RequestService) list(ctx context.Context, cond string, args ...any) ([]models.Request, error) {
	var requests []models.Request
	err := s.db.WithContext(ctx).
		Preload("Service").
		Preload("UserLocation").
		Where(cond, args...).
		Order("requests.created_at DESC, requests.id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0)
}
