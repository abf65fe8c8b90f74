package ledger

import (
	"context"
	"math"
	"testing"

	"penny_count/internal/models"
	"penny_count/internal/store"
)

// builds two lines with distinct staff so role scoping is observable.
func seedBook(t *testing.T, engine *Engine, s store.Store) (lineA, lineB *models.Line) {
	t.Helper()
	ctx := context.Background()

	lineA = &models.Line{
		Name: "Line A", OwnerID: "owner-1", CoOwnerID: "coowner-1", AgentID: "agent-1",
		InitialCapital: 100000, CurrentBalance: 100000, IsActive: true,
	}
	lineB = &models.Line{
		Name: "Line B", OwnerID: "owner-1", AgentID: "agent-2",
		InitialCapital: 50000, CurrentBalance: 50000, IsActive: true,
	}
	for _, l := range []*models.Line{lineA, lineB} {
		if err := s.CreateLine(ctx, l); err != nil {
			t.Fatalf("could not seed line: %v", err)
		}
	}

	ba := &models.Borrower{LineID: lineA.ID, Name: "Rajesh Kumar"}
	bb := &models.Borrower{LineID: lineB.ID, Name: "Priya Sharma"}
	for _, b := range []*models.Borrower{ba, bb} {
		if err := engine.RegisterBorrower(ctx, b); err != nil {
			t.Fatalf("could not seed borrower: %v", err)
		}
	}

	loanA, err := engine.DisburseLoan(ctx, DisburseLoanInput{
		BorrowerID: ba.ID, LineID: lineA.ID,
		Amount: 10000, Tenure: 30, Frequency: models.FrequencyDaily, TotalAmount: 10750,
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}
	if _, err := engine.DisburseLoan(ctx, DisburseLoanInput{
		BorrowerID: bb.ID, LineID: lineB.ID,
		Amount: 4000, Tenure: 20, Frequency: models.FrequencyWeekly, TotalAmount: 4200,
	}); err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}
	if _, err := engine.RecordPayment(ctx, RecordPaymentInput{
		LoanID: loanA.ID, BorrowerID: ba.ID, Amount: 2000, Method: models.MethodCash,
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	return lineA, lineB
}

func TestMetricsOwnerSeesEverything(t *testing.T) {
	engine, s := newTestEngine(t)
	seedBook(t, engine, s)

	m, err := engine.Metrics(context.Background(), "owner-1", models.RoleOwner)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if m.TotalLines != 2 || m.TotalBorrowers != 2 {
		t.Errorf("owner scope wrong: lines=%d borrowers=%d", m.TotalLines, m.TotalBorrowers)
	}
	if m.TotalDisbursed != 14000 || m.TotalCollected != 2000 {
		t.Errorf("cash totals wrong: disbursed=%v collected=%v", m.TotalDisbursed, m.TotalCollected)
	}
	if m.ActiveLoans != 2 {
		t.Errorf("expected 2 active loans, got %d", m.ActiveLoans)
	}
	if m.CashOnHand != 138000 {
		t.Errorf("expected cash on hand 138000, got %v", m.CashOnHand)
	}
	if m.Profit != -12000 {
		t.Errorf("expected profit -12000, got %v", m.Profit)
	}
	wantEff := 2000.0 / 14000.0 * 100
	if math.Abs(m.CollectionEfficiency-wantEff) > 1e-9 {
		t.Errorf("expected efficiency ~%v, got %v", wantEff, m.CollectionEfficiency)
	}
	if m.AvgLoanSize != 7000 {
		t.Errorf("expected avg loan size 7000, got %v", m.AvgLoanSize)
	}
}

func TestMetricsAgentScopedToOwnLines(t *testing.T) {
	engine, s := newTestEngine(t)
	seedBook(t, engine, s)

	m, err := engine.Metrics(context.Background(), "agent-2", models.RoleAgent)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if m.TotalLines != 1 || m.TotalBorrowers != 1 {
		t.Errorf("agent scope wrong: lines=%d borrowers=%d", m.TotalLines, m.TotalBorrowers)
	}
	if m.TotalDisbursed != 4000 || m.TotalCollected != 0 {
		t.Errorf("agent cash totals wrong: disbursed=%v collected=%v", m.TotalDisbursed, m.TotalCollected)
	}
}

func TestMetricsCoOwnerWithoutLinesIsAllZero(t *testing.T) {
	engine, s := newTestEngine(t)
	seedBook(t, engine, s)

	m, err := engine.Metrics(context.Background(), "coowner-nobody", models.RoleCoOwner)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	zero := DashboardMetrics{}
	if *m != zero {
		t.Errorf("expected all-zero metrics for a co-owner with no lines, got %+v", m)
	}
}

func TestMetricsEmptyBookRatios(t *testing.T) {
	engine, _ := newTestEngine(t)

	m, err := engine.Metrics(context.Background(), "owner-1", models.RoleOwner)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if m.CollectionEfficiency != 0 || m.DefaultRate != 0 || m.AvgLoanSize != 0 {
		t.Errorf("ratios on an empty book must be zero, got %+v", m)
	}
}
