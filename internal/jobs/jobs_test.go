package jobs

import (
	"context"
	"testing"
	"time"

	"penny_count/internal/models"
	"penny_count/internal/store"
)

func newTestJobs(t *testing.T) (*Jobs, store.Store) {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("could not create file store: %v", err)
	}
	return New(fs), fs
}

func TestRunCommissions(t *testing.T) {
	jobs, s := newTestJobs(t)
	ctx := context.Background()

	line := &models.Line{
		Name: "Line A", OwnerID: "o1", CoOwnerID: "co1", CommissionPercent: 10,
	}
	plain := &models.Line{Name: "Line B", OwnerID: "o1"} // no co-owner, never pays commission
	for _, l := range []*models.Line{line, plain} {
		if err := s.CreateLine(ctx, l); err != nil {
			t.Fatalf("seed line: %v", err)
		}
	}

	loan := &models.Loan{LineID: line.ID, Status: models.LoanStatusActive}
	other := &models.Loan{LineID: plain.ID, Status: models.LoanStatusActive}
	for _, l := range []*models.Loan{loan, other} {
		if err := s.CreateLoan(ctx, l); err != nil {
			t.Fatalf("seed loan: %v", err)
		}
	}

	feb := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
	payments := []models.Payment{
		{LoanID: loan.ID, Amount: 3000, ReceivedAt: feb},
		{LoanID: loan.ID, Amount: 2000, ReceivedAt: feb.AddDate(0, 0, 5)},
		{LoanID: loan.ID, Amount: 9999, ReceivedAt: feb.AddDate(0, 1, 0)},  // next month
		{LoanID: other.ID, Amount: 1000, ReceivedAt: feb},                  // line without co-owner
	}
	for i := range payments {
		if err := s.CreatePayment(ctx, &payments[i]); err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}

	created, err := jobs.RunCommissions(ctx, feb)
	if err != nil {
		t.Fatalf("RunCommissions failed: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 commission, got %d", created)
	}

	commissions, _ := s.ListCommissions(ctx)
	if len(commissions) != 1 {
		t.Fatalf("expected 1 stored commission, got %d", len(commissions))
	}
	c := commissions[0]
	if c.CoOwnerID != "co1" || c.LineID != line.ID {
		t.Errorf("commission attributed wrong: %+v", c)
	}
	if c.CalculatedOn != 5000 {
		t.Errorf("expected base 5000 (February payments only), got %v", c.CalculatedOn)
	}
	if c.Amount != 500 {
		t.Errorf("expected 10%% of 5000 = 500, got %v", c.Amount)
	}
	if c.Period != "2024-02" || c.Status != models.CommissionPending {
		t.Errorf("commission metadata wrong: %+v", c)
	}

	notes, _ := s.ListNotifications(ctx)
	if len(notes) != 1 || notes[0].UserID != "co1" || notes[0].Type != "commission" {
		t.Errorf("co-owner not notified: %+v", notes)
	}

	// Re-running the same period must be a no-op.
	created, err = jobs.RunCommissions(ctx, feb)
	if err != nil {
		t.Fatalf("repeat RunCommissions failed: %v", err)
	}
	if created != 0 {
		t.Errorf("repeat run created %d commissions, want 0", created)
	}
	commissions, _ = s.ListCommissions(ctx)
	if len(commissions) != 1 {
		t.Errorf("repeat run duplicated commissions: %d", len(commissions))
	}
}

func TestSweepOverdue(t *testing.T) {
	jobs, s := newTestJobs(t)
	ctx := context.Background()
	now := time.Date(2024, time.March, 1, 0, 30, 0, 0, time.UTC)

	pastDue := &models.Loan{
		LineID: "l1", AgentID: "agent-1",
		Status: models.LoanStatusActive, RemainingAmount: 4200,
		DueDate: now.AddDate(0, 0, -3),
	}
	current := &models.Loan{
		LineID: "l1", AgentID: "agent-1",
		Status: models.LoanStatusActive, RemainingAmount: 1000,
		DueDate: now.AddDate(0, 0, 10),
	}
	settled := &models.Loan{
		LineID: "l1",
		Status: models.LoanStatusCompleted, RemainingAmount: 0,
		DueDate: now.AddDate(0, 0, -30),
	}
	for _, l := range []*models.Loan{pastDue, current, settled} {
		if err := s.CreateLoan(ctx, l); err != nil {
			t.Fatalf("seed loan: %v", err)
		}
	}

	flipped, err := jobs.SweepOverdue(ctx, now)
	if err != nil {
		t.Fatalf("SweepOverdue failed: %v", err)
	}
	if flipped != 1 {
		t.Fatalf("expected 1 loan flipped, got %d", flipped)
	}

	got, _ := s.GetLoan(ctx, pastDue.ID)
	if got.Status != models.LoanStatusOverdue {
		t.Errorf("past-due loan not flipped: %s", got.Status)
	}
	got, _ = s.GetLoan(ctx, current.ID)
	if got.Status != models.LoanStatusActive {
		t.Errorf("current loan touched: %s", got.Status)
	}
	got, _ = s.GetLoan(ctx, settled.ID)
	if got.Status != models.LoanStatusCompleted {
		t.Errorf("completed loan touched: %s", got.Status)
	}

	notes, _ := s.ListNotifications(ctx)
	if len(notes) != 1 || notes[0].UserID != "agent-1" || notes[0].Type != "loan_overdue" {
		t.Errorf("agent not notified correctly: %+v", notes)
	}

	// Already-overdue loans are skipped on the next sweep.
	flipped, err = jobs.SweepOverdue(ctx, now)
	if err != nil {
		t.Fatalf("repeat SweepOverdue failed: %v", err)
	}
	if flipped != 0 {
		t.Errorf("repeat sweep flipped %d loans, want 0", flipped)
	}
}
