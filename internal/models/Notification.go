package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID  string `gorm:"index" json:"user_id"`
	Type    string `json:"type"` // "payment_due", "loan_overdue", "commission"
	Title   string `json:"title"`
	Message string `json:"message"`
	IsRead  bool   `json:"is_read"`
}
