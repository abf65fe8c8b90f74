package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	LoanStatusActive    = "active"
	LoanStatusCompleted = "completed"
	LoanStatusOverdue   = "overdue"
	LoanStatusDefaulted = "defaulted"
)

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Loan tracks a single disbursement and its repayment schedule.
// PaidAmount + RemainingAmount == TotalAmount at all times; the status moves
// to "completed" exactly once, when the remaining balance hits zero.
type Loan struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BorrowerID string `gorm:"index" json:"borrower_id"`
	LineID     string `gorm:"index" json:"line_id"`
	AgentID    string `gorm:"index" json:"agent_id"`

	Amount             float64 `json:"amount"` // principal
	InterestRate       float64 `json:"interest_rate"`
	Tenure             int     `json:"tenure"` // days
	RepaymentFrequency string  `json:"repayment_frequency"`

	TotalAmount     float64 `json:"total_amount"`
	PaidAmount      float64 `json:"paid_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	Status          string  `gorm:"index" json:"status"`

	DisbursedAt     time.Time  `json:"disbursed_at"`
	DueDate         time.Time  `json:"due_date"`
	NextPaymentDate time.Time  `json:"next_payment_date"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	// Only the field matching RepaymentFrequency is populated.
	DailyAmount   float64 `json:"daily_amount,omitempty"`
	WeeklyAmount  float64 `json:"weekly_amount,omitempty"`
	MonthlyAmount float64 `json:"monthly_amount,omitempty"`
}
