package controllers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"penny_count/internal/ledger"
	"penny_count/internal/models"
)

type LoanController struct {
	Engine *ledger.Engine
}

func NewLoanController(e *ledger.Engine) *LoanController {
	return &LoanController{Engine: e}
}

func (lc *LoanController) ListLoans(c *gin.Context) {
	loans, err := lc.Engine.Store().ListLoans(c.Request.Context())
	respondList(c, "loans", loans, err)
}

func (lc *LoanController) GetLoan(c *gin.Context) {
	loan, err := lc.Engine.Store().GetLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

type createLoanInput struct {
	BorrowerID         string  `json:"borrower_id" binding:"required"`
	LineID             string  `json:"line_id" binding:"required"`
	AgentID            string  `json:"agent_id"`
	Amount             float64 `json:"amount" binding:"required"`
	InterestRate       float64 `json:"interest_rate"`
	Tenure             int     `json:"tenure" binding:"required"`
	RepaymentFrequency string  `json:"repayment_frequency" binding:"required"`
	// Principal plus interest as entered on the form; when absent the flat
	// rate over the tenure is assumed.
	TotalAmount float64 `json:"total_amount"`
}

// CreateLoan disburses a loan through the ledger engine.
func (lc *LoanController) CreateLoan(c *gin.Context) {
	var input createLoanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total := input.TotalAmount
	if total == 0 {
		total = math.Round(input.Amount * (1 + input.InterestRate/100))
	}

	loan, err := lc.Engine.DisburseLoan(c.Request.Context(), ledger.DisburseLoanInput{
		BorrowerID:   input.BorrowerID,
		LineID:       input.LineID,
		AgentID:      input.AgentID,
		Amount:       input.Amount,
		InterestRate: input.InterestRate,
		Tenure:       input.Tenure,
		Frequency:    input.RepaymentFrequency,
		TotalAmount:  total,
	})
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"loan": loan})
}

type updateLoanInput struct {
	Status          *string `json:"status"`
	NextPaymentDate *string `json:"next_payment_date"`
}

// UpdateLoan covers the manual corrections the dashboard allows: flagging a
// loan defaulted or nudging the next payment date. Amounts are ledger-owned.
func (lc *LoanController) UpdateLoan(c *gin.Context) {
	ctx := c.Request.Context()
	loan, err := lc.Engine.Store().GetLoan(ctx, c.Param("id"))
	if err != nil {
		respondWriteErr(c, err)
		return
	}

	var input updateLoanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Status != nil {
		// Completion is terminal; a fully repaid loan never reverts.
		if loan.Status == models.LoanStatusCompleted {
			c.JSON(http.StatusBadRequest, gin.H{"error": "completed loans cannot change status"})
			return
		}
		switch *input.Status {
		case models.LoanStatusActive, models.LoanStatusOverdue, models.LoanStatusDefaulted:
			loan.Status = *input.Status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active, overdue or defaulted"})
			return
		}
	}
	if input.NextPaymentDate != nil {
		next, err := parseDate(*input.NextPaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid next_payment_date: " + err.Error()})
			return
		}
		loan.NextPaymentDate = next
	}

	if err := lc.Engine.Store().UpdateLoan(ctx, loan); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}
