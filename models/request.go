package models

import (
	"fmt"
	"time"
)

// RequestStatus represents the lifecycle state of a service request
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusAccepted   RequestStatus = "accepted"
	RequestStatusInProgress RequestStatus = "inprogress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// transitions lists, for each state, the states it may move to.
// pending -> accepted happens only through quote acceptance.
var transitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:    {RequestStatusAccepted},
	RequestStatusAccepted:   {RequestStatusInProgress, RequestStatusCancelled},
	RequestStatusInProgress: {RequestStatusCompleted, RequestStatusCancelled},
}

// ParseRequestStatus validates a raw status string
func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(s)
	switch st {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusInProgress,
		RequestStatusCompleted, RequestStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown request status %q", s)
}

// CanTransition reports whether from -> to is an edge of the lifecycle
func CanTransition(from, to RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s RequestStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// HasWorker reports whether a request in this status must carry a worker
func (s RequestStatus) HasWorker() bool {
	return s != RequestStatusPending
}

// Request is a user's ask for a service at one of their locations
type Request struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	UserID          uint          `json:"user_id" gorm:"not null;index"`
	User            User          `json:"-" gorm:"foreignKey:UserID"`
	WorkerID        *uint         `json:"worker_id" gorm:"index"`
	Worker          *Worker       `json:"-" gorm:"foreignKey:WorkerID"`
	ServiceID       uint          `json:"service_id" gorm:"not null;index"`
	Service         Service       `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	UserLocationID  uint          `json:"user_location_id" gorm:"not null"`
	UserLocation    UserLocation  `json:"location,omitempty" gorm:"foreignKey:UserLocationID;constraint:OnDelete:RESTRICT"`
	Status          RequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Description     string        `json:"description" gorm:"type:text;not null"`
	UrgencyLevel    string        `json:"urgency_level" gorm:"type:varchar(20)"`
	AdditionalNotes string        `json:"additional_notes" gorm:"type:text"`
	UserQuotedPrice *float64      `json:"user_quoted_price" gorm:"type:decimal(10,2)"`
	FinalPrice      *float64      `json:"final_price" gorm:"type:decimal(10,2)"`
	AcceptedQuoteID *uint         `json:"accepted_quote_id"`
	StartedAt       *time.Time    `json:"started_at"`
	CompletedAt     *time.Time    `json:"completed_at"`
	CancelledAt     *time.Time    `json:"cancelled_at"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the Request model
func (Request) TableName() string {
	return "requests"
}

// RequestCreate represents the request structure for creating a service request
type RequestCreate struct {
	ServiceID       uint     `json:"service_id" binding:"required"`
	UserLocationID  uint     `json:"user_location_id" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	UrgencyLevel    string   `json:"urgency_level"`
	AdditionalNotes string   `json:"additional_notes"`
	UserQuotedPrice *float64 `json:"user_quoted_price"`
}

// StatusUpdate is the worker body for advancing a request
type StatusUpdate struct {
	Status string `json:"status" binding:"required"`
}
