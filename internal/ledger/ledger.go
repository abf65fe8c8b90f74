package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"penny_count/internal/models"
	"penny_count/internal/store"
)

const (
	defaultTimeout = 10 * time.Second
	maxAttempts    = 3
	retryBackoff   = 200 * time.Millisecond

	newBorrowerCreditScore = 700
)

// Engine applies the ledger update protocol: every disbursement and payment
// flows through here so the denormalized aggregates on Line, Borrower and
// Loan stay consistent. All multi-entity updates run inside a single store
// transaction, retried with backoff when the backend hiccups.
type Engine struct {
	store store.Store
}

func New(s store.Store) *Engine {
	return &Engine{store: s}
}

// Store exposes the underlying store for plain CRUD callers.
func (e *Engine) Store() store.Store {
	return e.store
}

// transact imposes the request deadline and retries transient failures
// (serialization conflicts, unreachable backend) before giving up. The
// deadline-bearing context is handed to fn so every store call inside the
// transaction is bounded by it.
func (e *Engine) transact(ctx context.Context, fn func(context.Context, store.Store) error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}
		err = e.store.Transact(ctx, func(s store.Store) error { return fn(ctx, s) })
		if err == nil {
			return nil
		}
		if !store.IsSerializationFailure(err) && !errors.Is(err, store.ErrBackendUnavailable) {
			return err
		}
	}
	return err
}

// DisburseLoanInput carries everything a disbursement needs. TotalAmount is
// principal plus interest, computed by the caller; the engine does not
// second-guess the interest arithmetic.
type DisburseLoanInput struct {
	BorrowerID   string
	LineID       string
	AgentID      string
	Amount       float64
	InterestRate float64
	Tenure       int
	Frequency    string
	TotalAmount  float64
}

func (in DisburseLoanInput) validate() error {
	if in.Amount <= 0 {
		return fmt.Errorf("principal must be positive")
	}
	if in.Tenure <= 0 {
		return fmt.Errorf("tenure must be positive")
	}
	if in.TotalAmount < in.Amount {
		return fmt.Errorf("total amount cannot be below principal")
	}
	switch in.Frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
		return nil
	}
	return fmt.Errorf("unknown repayment frequency %q", in.Frequency)
}

// DisburseLoan creates the loan and atomically bumps the borrower and line
// aggregates. Dangling borrower/line/agent references fail with
// ErrReferenceNotFound before anything is written.
func (e *Engine) DisburseLoan(ctx context.Context, in DisburseLoanInput) (*models.Loan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created models.Loan
	err := e.transact(ctx, func(ctx context.Context, s store.Store) error {
		borrower, err := s.GetBorrower(ctx, in.BorrowerID)
		if err != nil {
			return refErr("borrower", in.BorrowerID, err)
		}
		line, err := s.GetLine(ctx, in.LineID)
		if err != nil {
			return refErr("line", in.LineID, err)
		}
		if in.AgentID != "" {
			if _, err := s.GetUser(ctx, in.AgentID); err != nil {
				return refErr("agent", in.AgentID, err)
			}
		}

		now := time.Now()
		loan := models.Loan{
			BorrowerID:         in.BorrowerID,
			LineID:             in.LineID,
			AgentID:            in.AgentID,
			Amount:             in.Amount,
			InterestRate:       in.InterestRate,
			Tenure:             in.Tenure,
			RepaymentFrequency: in.Frequency,
			TotalAmount:        in.TotalAmount,
			PaidAmount:         0,
			RemainingAmount:    in.TotalAmount,
			Status:             models.LoanStatusActive,
			DisbursedAt:        now,
			DueDate:            now.AddDate(0, 0, in.Tenure),
			NextPaymentDate:    now.AddDate(0, 0, frequencyDays(in.Frequency)),
		}
		switch in.Frequency {
		case models.FrequencyDaily:
			loan.DailyAmount = math.Round(in.TotalAmount / float64(in.Tenure))
		case models.FrequencyWeekly:
			loan.WeeklyAmount = math.Round(in.TotalAmount / math.Ceil(float64(in.Tenure)/7))
		case models.FrequencyMonthly:
			loan.MonthlyAmount = math.Round(in.TotalAmount / math.Ceil(float64(in.Tenure)/30))
		}
		if err := s.CreateLoan(ctx, &loan); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}

		borrower.TotalLoans++
		borrower.ActiveLoans++
		borrower.OutstandingAmount += in.TotalAmount
		if err := s.UpdateBorrower(ctx, borrower); err != nil {
			return fmt.Errorf("update borrower aggregates: %w", err)
		}

		line.TotalDisbursed += in.Amount
		line.CurrentBalance -= in.Amount
		if err := s.UpdateLine(ctx, line); err != nil {
			return fmt.Errorf("update line aggregates: %w", err)
		}

		created = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

type RecordPaymentInput struct {
	LoanID        string
	BorrowerID    string
	AgentID       string
	Amount        float64
	Method        string
	TransactionID string
	IsOffline     bool
}

// PaymentResult reports what the payment actually did to the loan.
// Overpayment is the slice of the amount beyond the loan's remaining
// balance; it is kept in the payment record and the line's cash figures but
// never drives RemainingAmount negative.
type PaymentResult struct {
	Payment     models.Payment `json:"payment"`
	Loan        models.Loan    `json:"loan"`
	Overpayment float64        `json:"overpayment,omitempty"`
	Completed   bool           `json:"completed"`
}

// RecordPayment appends the payment and propagates it to the loan, the
// borrower and the line inside one transaction.
func (e *Engine) RecordPayment(ctx context.Context, in RecordPaymentInput) (*PaymentResult, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	switch in.Method {
	case models.MethodCash, models.MethodUPI, models.MethodBank:
	default:
		return nil, fmt.Errorf("unknown payment method %q", in.Method)
	}

	var result PaymentResult
	err := e.transact(ctx, func(ctx context.Context, s store.Store) error {
		loan, err := s.GetLoan(ctx, in.LoanID)
		if err != nil {
			return refErr("loan", in.LoanID, err)
		}
		borrower, err := s.GetBorrower(ctx, in.BorrowerID)
		if err != nil {
			return refErr("borrower", in.BorrowerID, err)
		}
		line, err := s.GetLine(ctx, loan.LineID)
		if err != nil {
			return refErr("line", loan.LineID, err)
		}

		now := time.Now()
		payment := models.Payment{
			LoanID:        in.LoanID,
			BorrowerID:    in.BorrowerID,
			AgentID:       in.AgentID,
			Amount:        in.Amount,
			Method:        in.Method,
			TransactionID: in.TransactionID,
			ReceivedAt:    now,
			IsOffline:     in.IsOffline,
		}
		if !in.IsOffline {
			payment.SyncedAt = &now
		}
		if err := s.CreatePayment(ctx, &payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		// Clamp at zero: the loan absorbs at most its remaining balance,
		// the excess is surfaced as an overpayment instead of a negative
		// remainder.
		applied := math.Min(in.Amount, loan.RemainingAmount)
		loan.PaidAmount += applied
		loan.RemainingAmount -= applied

		completed := false
		if loan.RemainingAmount <= 0 && loan.Status != models.LoanStatusCompleted {
			loan.Status = models.LoanStatusCompleted
			loan.CompletedAt = &now
			completed = true
			if borrower.ActiveLoans > 0 {
				borrower.ActiveLoans--
			}
		}
		if err := s.UpdateLoan(ctx, loan); err != nil {
			return fmt.Errorf("update loan balances: %w", err)
		}

		borrower.TotalRepaid += in.Amount
		borrower.OutstandingAmount -= applied
		borrower.LastPaymentDate = &now
		if err := s.UpdateBorrower(ctx, borrower); err != nil {
			return fmt.Errorf("update borrower aggregates: %w", err)
		}

		// The full amount is cash received, overpayment included.
		line.TotalCollected += in.Amount
		line.CurrentBalance += in.Amount
		if err := s.UpdateLine(ctx, line); err != nil {
			return fmt.Errorf("update line aggregates: %w", err)
		}

		result = PaymentResult{
			Payment:     payment,
			Loan:        *loan,
			Overpayment: in.Amount - applied,
			Completed:   completed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterBorrower stores a new borrower under a line and bumps the line's
// borrower count. Counters start at zero, the credit score at its baseline.
func (e *Engine) RegisterBorrower(ctx context.Context, b *models.Borrower) error {
	b.TotalLoans = 0
	b.ActiveLoans = 0
	b.TotalRepaid = 0
	b.OutstandingAmount = 0
	if b.CreditScore == 0 {
		b.CreditScore = newBorrowerCreditScore
	}
	return e.transact(ctx, func(ctx context.Context, s store.Store) error {
		line, err := s.GetLine(ctx, b.LineID)
		if err != nil {
			return refErr("line", b.LineID, err)
		}
		if err := s.CreateBorrower(ctx, b); err != nil {
			return fmt.Errorf("create borrower: %w", err)
		}
		line.BorrowerCount++
		return s.UpdateLine(ctx, line)
	})
}

func frequencyDays(freq string) int {
	switch freq {
	case models.FrequencyWeekly:
		return 7
	case models.FrequencyMonthly:
		return 30
	default:
		return 1
	}
}

func refErr(kind, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrReferenceNotFound)
	}
	return fmt.Errorf("load %s %s: %w", kind, id, err)
}
