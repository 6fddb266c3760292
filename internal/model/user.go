// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// RoleStudent is role for student users
	RoleStudent = "student"
	// RoleRecruiter is role for recruiter users
	RoleRecruiter = "recruiter"
	// RoleAdmin is role for TPO admin users
	RoleAdmin = "admin"
)

// User is gorm model for every account on the platform
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Email    *string   `json:"email"`
	Tel      *string   `json:"tel"`
	Role     string    `gorm:"not null" json:"role"`
	Password string    `json:"-"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}
