package models

import (
	"time"
)

// WorkerStatus represents the approval state of a worker account
type WorkerStatus string

const (
	WorkerStatusPending  WorkerStatus = "pending"
	WorkerStatusApproved WorkerStatus = "approved"
	WorkerStatusRejected WorkerStatus = "rejected"
)

// Worker is an independent professional who quotes on and executes requests.
// Pincode, Radius and Categories together make up the matching profile.
type Worker struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	Username        string            `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email           string            `json:"email" gorm:"size:255;uniqueIndex;not null"`
	EmployeeNumber  string            `json:"employee_number" gorm:"size:50;uniqueIndex;not null"`
	Mobile          string            `json:"mobile" gorm:"size:20;not null"`
	PasswordHash    string            `json:"-" gorm:"size:255;not null"`
	Status          WorkerStatus      `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Pincode         *string           `json:"pincode" gorm:"size:20"`
	Radius          *int              `json:"radius"`
	ProfilePhotoURL *string           `json:"profile_photo_url" gorm:"type:varchar(500)"`
	Categories      []ServiceCategory `json:"categories" gorm:"many2many:worker_categories;constraint:OnDelete:RESTRICT"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the Worker model
func (Worker) TableName() string {
	return "workers"
}

// IsApproved reports whether the worker may log in and quote
func (w *Worker) IsApproved() bool {
	return w.Status == WorkerStatusApproved
}

// CategoryIDs returns the ids of the worker's offered categories
func (w *Worker) CategoryIDs() []uint {
	ids := make([]uint, 0, len(w.Categories))
	for _, c := range w.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// WorkerSignUp represents the request structure for worker registration
type WorkerSignUp struct {
	Username       string  `json:"username" binding:"required,min=3,max=100"`
	Email          string  `json:"email" binding:"required,email"`
	EmployeeNumber string  `json:"employee_number" binding:"required"`
	Mobile         string  `json:"mobile" binding:"required"`
	Password       string  `json:"password" binding:"required,min=8,max=128"`
	Pincode        *string `json:"pincode"`
	CategoryIDs    []uint  `json:"category_ids"`
}

// WorkerProfileUpdate represents a partial update of a worker profile.
// A nil CategoryIDs leaves the category set untouched; an empty slice clears it.
type WorkerProfileUpdate struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	Mobile      *string `json:"mobile"`
	Pincode     *string `json:"pincode"`
	Radius      *int    `json:"radius"`
	CategoryIDs []uint  `json:"category_ids"`
}

// WorkerStatusUpdate is the admin body for approving or rejecting a worker
type WorkerStatusUpdate struct {
	Status WorkerStatus `json:"status" binding:"required"`
}
