package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Role values carried in JWT claims and checked by the route groups.
const (
	RoleOwner   = "owner"
	RoleCoOwner = "co-owner"
	RoleAgent   = "agent"
)

type User struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `json:"name" binding:"required"`
	Phone    string `gorm:"uniqueIndex" json:"phone" binding:"required"`
	Password string `json:"-"`
	Role     string `json:"role"` // "owner", "co-owner", "agent"
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Line ids this user works; owners see every line regardless.
	AssignedLines pq.StringArray `gorm:"type:text[]" json:"assigned_lines,omitempty"`
}
