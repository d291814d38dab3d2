package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles as carried in JWT claims.
const (
	RoleAdmin      = "admin"
	RoleConsultant = "consultant"
	RoleUser       = "user"
)

// User represents a platform account. Authentication and profile management
// live in a separate service; this core only reads users by ID.
type User struct {
	ID             uint           `json:"id" gorm:"primarykey"`
	Username       string         `json:"username" gorm:"type:varchar(50);unique;not null"`
	Email          string         `json:"email" gorm:"type:varchar(100);unique;not null"`
	HashedPassword string         `json:"-" gorm:"type:varchar(255);not null"`
	FirstName      string         `json:"first_name" gorm:"type:varchar(50)"`
	LastName       string         `json:"last_name" gorm:"type:varchar(50)"`
	Phone          string         `json:"phone" gorm:"type:varchar(20)"`
	Role           string         `json:"role" gorm:"type:varchar(20);default:'user'"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
