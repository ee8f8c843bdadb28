package models

import "time"

// RequestQuote is one worker's price offer on one request. A worker holds at
// most one quote per request; resubmitting updates it in place.
type RequestQuote struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	RequestID         uint      `json:"request_id" gorm:"not null;uniqueIndex:idx_request_quotes_request_worker"`
	Request           Request   `json:"-" gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	WorkerID          uint      `json:"worker_id" gorm:"not null;uniqueIndex:idx_request_quotes_request_worker;index"`
	Worker            Worker    `json:"-" gorm:"foreignKey:WorkerID"`
	WorkerQuotedPrice float64   `json:"worker_quoted_price" gorm:"type:decimal(10,2);not null"`
	WorkerComments    string    `json:"worker_comments" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for the RequestQuote model
func (RequestQuote) TableName() string {
	return "request_quotes"
}

// QuoteSubmit represents the worker body for submitting or revising a quote
type QuoteSubmit struct {
	Price    float64 `json:"worker_quoted_price" binding:"required"`
	Comments string  `json:"worker_comments"`
}

// QuoteView is a ledger row as shown to the owning user
type QuoteView struct {
	RequestQuote
	WorkerName string `json:"worker_name"`
	Accepted   bool   `json:"accepted"`
}
