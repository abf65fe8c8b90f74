package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"penny_count/internal/ledger"
)

type PaymentController struct {
	Engine *ledger.Engine
}

func NewPaymentController(e *ledger.Engine) *PaymentController {
	return &PaymentController{Engine: e}
}

func (pc *PaymentController) ListPayments(c *gin.Context) {
	payments, err := pc.Engine.Store().ListPayments(c.Request.Context())
	respondList(c, "payments", payments, err)
}

type createPaymentInput struct {
	LoanID        string  `json:"loan_id" binding:"required"`
	BorrowerID    string  `json:"borrower_id" binding:"required"`
	AgentID       string  `json:"agent_id"`
	Amount        float64 `json:"amount" binding:"required"`
	Method        string  `json:"method" binding:"required"`
	TransactionID string  `json:"transaction_id"`
	IsOffline     bool    `json:"is_offline"`
}

// CreatePayment records a collection through the ledger engine and returns
// what it did to the loan, overpayment included.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var input createPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := pc.Engine.RecordPayment(c.Request.Context(), ledger.RecordPaymentInput{
		LoanID:        input.LoanID,
		BorrowerID:    input.BorrowerID,
		AgentID:       input.AgentID,
		Amount:        input.Amount,
		Method:        input.Method,
		TransactionID: input.TransactionID,
		IsOffline:     input.IsOffline,
	})
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
