package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CommissionPending = "pending"
	CommissionPaid    = "paid"
)

// Commission is a co-owner's cut of a line's collections over one period,
// produced by the monthly commission run.
type Commission struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CoOwnerID string `gorm:"index" json:"co_owner_id"`
	LineID    string `gorm:"index" json:"line_id"`

	Amount       float64 `json:"amount"`
	Percentage   float64 `json:"percentage"`
	CalculatedOn float64 `json:"calculated_on"` // collections the amount was computed from
	Period       string  `gorm:"index" json:"period"` // "2024-02"

	Status string     `json:"status"` // "pending", "paid"
	PaidAt *time.Time `json:"paid_at,omitempty"`
}
