package models

import (
	"time"
)

// User is a customer who posts service requests
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Mobile       string    `json:"mobile" gorm:"size:20;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Locations []UserLocation `json:"locations,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// UserLocation is an address a user can attach to a request. The pincode is
// free text; only numeric pincodes take part in worker matching.
type UserLocation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Address   string    `json:"address" gorm:"type:text;not null"`
	Pincode   string    `json:"pincode" gorm:"size:20"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the UserLocation model
func (UserLocation) TableName() string {
	return "user_locations"
}

// UserSignUp represents the request structure for registering a user
type UserSignUp struct {
	Username string `json:"username" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// UserLogin is the user login body
type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LocationRequest represents the request structure for creating/updating a location
type LocationRequest struct {
	Address string `json:"address" binding:"required"`
	Pincode string `json:"pincode"`
}
