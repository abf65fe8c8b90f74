package models

import (
	"time"

	"gorm.io/gorm"
)

// Line is a capital pool and its borrower portfolio, run by an agent and
// optionally overseen by a co-owner who earns commission on collections.
//
// CurrentBalance is maintained incrementally by the ledger engine and must
// always equal InitialCapital + TotalCollected - TotalDisbursed.
type Line struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string `json:"name" binding:"required"`
	OwnerID   string `gorm:"index" json:"owner_id"`
	CoOwnerID string `gorm:"index" json:"co_owner_id,omitempty"`
	AgentID   string `gorm:"index" json:"agent_id,omitempty"`

	InitialCapital float64 `json:"initial_capital"`
	CurrentBalance float64 `json:"current_balance"`
	TotalDisbursed float64 `json:"total_disbursed"`
	TotalCollected float64 `json:"total_collected"`
	BorrowerCount  int     `json:"borrower_count"`

	IsActive          bool    `gorm:"default:true" json:"is_active"`
	InterestRate      float64 `json:"interest_rate"`      // percent per tenure
	DefaultTenure     int     `json:"default_tenure"`     // days
	CommissionPercent float64 `json:"commission_percent"` // co-owner cut of collections
}
