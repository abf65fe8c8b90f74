package jobs

import (
	"context"
	"fmt"
	"time"

	logrus "github.com/sirupsen/logrus"

	"penny_count/internal/models"
	"penny_count/internal/store"
)

// Jobs holds the periodic maintenance tasks: the monthly commission run and
// the daily overdue sweep.
type Jobs struct {
	store store.Store
}

func New(s store.Store) *Jobs {
	return &Jobs{store: s}
}

// RunCommissions computes each co-owned line's commission for the month
// containing ref (normally the month that just closed). The base is the sum
// of payments collected on the line during that month. Already-calculated
// (line, period) pairs are skipped, so the run is safe to repeat.
func (j *Jobs) RunCommissions(ctx context.Context, ref time.Time) (int, error) {
	period := ref.Format("2006-01")
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0)

	created := 0
	err := j.store.Transact(ctx, func(s store.Store) error {
		lines, err := s.ListLines(ctx)
		if err != nil {
			return err
		}
		loans, err := s.ListLoans(ctx)
		if err != nil {
			return err
		}
		payments, err := s.ListPayments(ctx)
		if err != nil {
			return err
		}
		existing, err := s.ListCommissions(ctx)
		if err != nil {
			return err
		}

		done := make(map[string]bool)
		for _, c := range existing {
			done[c.LineID+"/"+c.Period] = true
		}
		loanLine := make(map[string]string, len(loans))
		for _, l := range loans {
			loanLine[l.ID] = l.LineID
		}
		collected := make(map[string]float64)
		for _, p := range payments {
			if p.ReceivedAt.Before(start) || !p.ReceivedAt.Before(end) {
				continue
			}
			collected[loanLine[p.LoanID]] += p.Amount
		}

		for _, line := range lines {
			if line.CoOwnerID == "" || line.CommissionPercent <= 0 {
				continue
			}
			if done[line.ID+"/"+period] {
				continue
			}
			base := collected[line.ID]
			commission := models.Commission{
				CoOwnerID:    line.CoOwnerID,
				LineID:       line.ID,
				Amount:       base * line.CommissionPercent / 100,
				Percentage:   line.CommissionPercent,
				CalculatedOn: base,
				Period:       period,
				Status:       models.CommissionPending,
			}
			if err := s.CreateCommission(ctx, &commission); err != nil {
				return fmt.Errorf("create commission for line %s: %w", line.ID, err)
			}
			note := models.Notification{
				UserID:  line.CoOwnerID,
				Type:    "commission",
				Title:   "Commission calculated",
				Message: fmt.Sprintf("%s earned you %.2f for %s", line.Name, commission.Amount, period),
			}
			if err := s.CreateNotification(ctx, &note); err != nil {
				return fmt.Errorf("notify co-owner %s: %w", line.CoOwnerID, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"period": period, "created": created}).Info("commission run finished")
	return created, nil
}

// SweepOverdue flips active loans past their due date with an outstanding
// balance to "overdue" and tells the responsible agent.
func (j *Jobs) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	flipped := 0
	err := j.store.Transact(ctx, func(s store.Store) error {
		loans, err := s.ListLoans(ctx)
		if err != nil {
			return err
		}
		for _, loan := range loans {
			if loan.Status != models.LoanStatusActive {
				continue
			}
			if loan.RemainingAmount <= 0 || !loan.DueDate.Before(now) {
				continue
			}
			loan.Status = models.LoanStatusOverdue
			if err := s.UpdateLoan(ctx, &loan); err != nil {
				return fmt.Errorf("mark loan %s overdue: %w", loan.ID, err)
			}
			if loan.AgentID != "" {
				note := models.Notification{
					UserID:  loan.AgentID,
					Type:    "loan_overdue",
					Title:   "Loan overdue",
					Message: fmt.Sprintf("Loan %s is past due with %.2f remaining", loan.ID, loan.RemainingAmount),
				}
				if err := s.CreateNotification(ctx, &note); err != nil {
					return fmt.Errorf("notify agent %s: %w", loan.AgentID, err)
				}
			}
			flipped++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if flipped > 0 {
		logrus.WithField("loans", flipped).Info("overdue sweep flipped loans")
	}
	return flipped, nil
}
