package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MethodCash = "cash"
	MethodUPI  = "upi"
	MethodBank = "bank"
)

// Payment is append-only: once recorded it is never mutated. SyncedAt stays
// unset for payments captured offline until a later explicit sync.
type Payment struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	LoanID     string `gorm:"index" json:"loan_id"`
	BorrowerID string `gorm:"index" json:"borrower_id"`
	AgentID    string `gorm:"index" json:"agent_id"`

	Amount        float64 `json:"amount"`
	Method        string  `json:"method"` // "cash", "upi", "bank"
	TransactionID string  `json:"transaction_id,omitempty"`

	ReceivedAt time.Time  `json:"received_at"`
	SyncedAt   *time.Time `json:"synced_at,omitempty"`
	IsOffline  bool       `json:"is_offline"`
}
