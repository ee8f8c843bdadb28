package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"service-connect-server/models"
	"service-connect-server/types"
)

// QuoteService keeps the ledger of worker quotes on pending requests
type QuoteService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewQuoteService creates a new quote service
func NewQuoteService(db *gorm.DB, notifier Notifier) *QuoteService {
	return &QuoteService{db: db, notifier: notifier}
}

// QuoteResult is a stored quote and whether this call created it
type QuoteResult struct {
	Quote   models.RequestQuote `json:"quote"`
	Created bool                `json:"created"`
}

// SubmitOrUpdateQuote records the worker's price on a pending request. A
// second submission by the same worker revises the existing quote.
func (s *QuoteService) SubmitOrUpdateQuote(ctx context.Context, actor types.Actor, requestID uint, price float64, comments string) (*QuoteResult, error) {
	if !actor.IsWorker() {
		return nil, ErrForbidden
	}
	db := s.db.WithContext(ctx)

	var worker models.Worker
	if err := db.First(&worker, actor.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: worker %d does not exist", ErrForbidden, actor.ID)
		}
		return nil, err
	}
	if !worker.IsApproved() {
		return nil, fmt.Errorf("%w: worker %d is %s", ErrForbidden, worker.ID, worker.Status)
	}
	if !validPrice(price) {
		return nil, validation("worker_quoted_price must be greater than zero")
	}
	comments = strings.TrimSpace(comments)

	var request models.Request
	result := &QuoteResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		// Row lock so a quote write and an acceptance on the same request
		// cannot interleave.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, requestID).Error; err != nil {
			return lookupErr(err, "request", requestID)
		}
		if request.Status != models.RequestStatusPending || request.WorkerID != nil {
			return fmt.Errorf("%w: request %d is %s and no longer accepts quotes", ErrInvalidTransition, requestID, request.Status)
		}

		var existing models.RequestQuote
		err := tx.Where("request_id = ? AND worker_id = ?", requestID, worker.ID).First(&existing).Error
		switch {
		case err == nil:
			existing.WorkerQuotedPrice = price
			existing.WorkerComments = comments
			existing.UpdatedAt = time.Now()
			if err := tx.Model(&existing).Select("worker_quoted_price", "worker_comments", "updated_at").Updates(&existing).Error; err != nil {
				return err
			}
			result.Quote = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			quote := models.RequestQuote{
				RequestID:         requestID,
				WorkerID:          worker.ID,
				WorkerQuotedPrice: price,
				WorkerComments:    comments,
			}
			if err := tx.Omit(clause.Associations).Create(&quote).Error; err != nil {
				return writeErr(err, "quote for this worker")
			}
			result.Quote = quote
			result.Created = true
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := EventQuoteUpdated
	if result.Created {
		event = EventQuoteSubmitted
	}
	log.Printf("✅ Quote %d on request %d by worker %d (%s)", result.Quote.ID, requestID, worker.ID, event)
	notify(s.notifier, types.Actor{ID: request.UserID, Role: types.RoleUser}, event, map[string]any{
		"request_id":          requestID,
		"quote_id":            result.Quote.ID,
		"worker_id":           worker.ID,
		"worker_name":         worker.Username,
		"worker_quoted_price": result.Quote.WorkerQuotedPrice,
		"worker_comments":     result.Quote.WorkerComments,
	})
	return result, nil
}

// ListQuotesForRequest returns the request's quote ledger to its owner,
// most recently revised first.
func (s *QuoteService) ListQuotesForRequest(ctx context.Context, actor types.Actor, requestID uint) ([]models.QuoteView, error) {
	if !actor.IsUser() {
		return nil, ErrForbidden
	}
	db := s.db.WithContext(ctx)

	var request models.Request
	if err := db.First(&request, requestID).Error; err != nil {
		return nil, lookupErr(err, "request", requestID)
	}
	if request.UserID != actor.ID {
		return nil, fmt.Errorf("%w: request %d belongs to another user", ErrForbidden, requestID)
	}

	var quotes []models.RequestQuote
	err := db.Preload("Worker").
		Where("request_id = ?", requestID).
		Order("updated_at DESC, id DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}

	views := make([]models.QuoteView, 0, len(quotes))
	for _, q := range quotes {
		views = append(views, models.QuoteView{
			RequestQuote: q,
			WorkerName:   q.Worker.Username,
			Accepted:     request.AcceptedQuoteID != nil && *request.AcceptedQuoteID == q.ID,
		})
	}
	return views, nil
}
