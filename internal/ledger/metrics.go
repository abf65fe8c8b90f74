package ledger

import (
	"context"

	"penny_count/internal/models"
)

// DashboardMetrics is the role-scoped aggregate view. It is recomputed from
// the live collections on every request; nothing here is cached.
type DashboardMetrics struct {
	TotalLines           int     `json:"total_lines"`
	TotalBorrowers       int     `json:"total_borrowers"`
	TotalDisbursed       float64 `json:"total_disbursed"`
	TotalCollected       float64 `json:"total_collected"`
	ActiveLoans          int     `json:"active_loans"`
	OverdueLoans         int     `json:"overdue_loans"`
	DefaultedLoans       int     `json:"defaulted_loans"`
	CompletedLoans       int     `json:"completed_loans"`
	CollectionEfficiency float64 `json:"collection_efficiency"`
	Profit               float64 `json:"profit"`
	CashOnHand           float64 `json:"cash_on_hand"`
	DefaultRate          float64 `json:"default_rate"`
	AvgLoanSize          float64 `json:"avg_loan_size"`
}

// Metrics scans the lines visible to the requesting role and aggregates the
// borrowers and loans living under them. Owners see everything; co-owners
// and agents only the lines carrying their id.
func (e *Engine) Metrics(ctx context.Context, userID, role string) (*DashboardMetrics, error) {
	lines, err := e.store.ListLines(ctx)
	if err != nil {
		return nil, err
	}
	borrowers, err := e.store.ListBorrowers(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := e.store.ListLoans(ctx)
	if err != nil {
		return nil, err
	}

	visible := make(map[string]bool)
	var scoped []models.Line
	for _, l := range lines {
		switch role {
		case models.RoleCoOwner:
			if l.CoOwnerID != userID {
				continue
			}
		case models.RoleAgent:
			if l.AgentID != userID {
				continue
			}
		}
		visible[l.ID] = true
		scoped = append(scoped, l)
	}

	m := &DashboardMetrics{TotalLines: len(scoped)}
	for _, l := range scoped {
		m.TotalDisbursed += l.TotalDisbursed
		m.TotalCollected += l.TotalCollected
		m.CashOnHand += l.CurrentBalance
	}
	for _, b := range borrowers {
		if visible[b.LineID] {
			m.TotalBorrowers++
		}
	}

	totalLoans := 0
	for _, l := range loans {
		if !visible[l.LineID] {
			continue
		}
		totalLoans++
		switch l.Status {
		case models.LoanStatusActive:
			m.ActiveLoans++
		case models.LoanStatusOverdue:
			m.OverdueLoans++
		case models.LoanStatusDefaulted:
			m.DefaultedLoans++
		case models.LoanStatusCompleted:
			m.CompletedLoans++
		}
	}

	// Ratios are defined even on an empty book.
	if m.TotalDisbursed > 0 {
		m.CollectionEfficiency = m.TotalCollected / m.TotalDisbursed * 100
	}
	m.Profit = m.TotalCollected - m.TotalDisbursed
	if totalLoans > 0 {
		m.DefaultRate = float64(m.DefaultedLoans) / float64(totalLoans) * 100
		m.AvgLoanSize = m.TotalDisbursed / float64(totalLoans)
	}
	return m, nil
}
