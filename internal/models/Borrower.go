package models

import (
	"time"

	"gorm.io/gorm"
)

type Borrower struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	LineID  string `gorm:"index" json:"line_id"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`

	// Home/shop location stored as WKB (point, SRID 4326); the API speaks GeoJSON.
	Location []byte `gorm:"type:bytea" json:"-"`

	IsHighRisk  bool `json:"is_high_risk"`
	IsDefaulter bool `json:"is_defaulter"`

	TotalLoans        int     `json:"total_loans"`
	ActiveLoans       int     `json:"active_loans"`
	TotalRepaid       float64 `json:"total_repaid"`
	OutstandingAmount float64 `json:"outstanding_amount"`
	CreditScore       int     `json:"credit_score"`

	LastPaymentDate *time.Time `json:"last_payment_date,omitempty"`
}
