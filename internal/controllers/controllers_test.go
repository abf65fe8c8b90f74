package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"penny_count/internal/jobs"
	"penny_count/internal/ledger"
	"penny_count/internal/middleware"
	"penny_count/internal/models"
	"penny_count/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	store  store.Store
	engine *ledger.Engine
}

// newTestEnv wires the controllers over a file store exactly as main does,
// minus the scheduler and the listener.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("could not create file store: %v", err)
	}
	engine := ledger.New(fs)
	maintenance := jobs.New(fs)

	auth := NewAuthController(fs)
	borrowers := NewBorrowerController(engine)
	loans := NewLoanController(engine)
	payments := NewPaymentController(engine)
	dashboard := NewDashboardController(engine)
	commissions := NewCommissionController(fs, maintenance)

	r := gin.New()
	r.POST("/auth/signup", auth.Signup)
	r.POST("/auth/login", auth.Login)

	api := r.Group("/api", middleware.RequireAuth())
	api.GET("/dashboard/metrics", dashboard.Metrics)
	api.GET("/commissions", commissions.ListCommissions)

	agent := r.Group("/agent", middleware.RequireAuthWithRole(models.RoleAgent, models.RoleOwner))
	agent.POST("/borrowers", borrowers.CreateBorrower)
	agent.POST("/loans", loans.CreateLoan)
	agent.PUT("/loans/:id", loans.UpdateLoan)
	agent.POST("/payments", payments.CreatePayment)

	return &testEnv{router: r, store: fs, engine: engine}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("could not encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("could not decode response %q: %v", w.Body.String(), err)
	}
}

func ownerToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.GenerateToken("owner-1", models.RoleOwner)
	if err != nil {
		t.Fatalf("could not sign token: %v", err)
	}
	return token
}

func seedPortfolio(t *testing.T, env *testEnv) (*models.Line, *models.Borrower) {
	t.Helper()
	ctx := context.Background()
	line := &models.Line{
		Name: "Line A", OwnerID: "owner-1", AgentID: "agent-1",
		InitialCapital: 100000, CurrentBalance: 100000, IsActive: true,
	}
	if err := env.store.CreateLine(ctx, line); err != nil {
		t.Fatalf("seed line: %v", err)
	}
	borrower := &models.Borrower{LineID: line.ID, Name: "Rajesh Kumar", CreditScore: 700}
	if err := env.store.CreateBorrower(ctx, borrower); err != nil {
		t.Fatalf("seed borrower: %v", err)
	}
	return line, borrower
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/signup", "", gin.H{
		"name": "Anand", "phone": "+919900112233", "password": "s3cret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup returned %d: %s", w.Code, w.Body.String())
	}
	var signup struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, w, &signup)
	if signup.Token == "" {
		t.Error("signup returned no token")
	}
	if signup.User.Role != models.RoleOwner {
		t.Errorf("blank role should default to owner, got %q", signup.User.Role)
	}

	w = env.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"phone": "+919900112233", "password": "s3cret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"phone": "+919900112233", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password returned %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodPost, "/auth/signup", "", gin.H{
		"name": "Imposter", "phone": "+919900112233", "password": "other",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate phone signup returned %d, want 409", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/api/dashboard/metrics", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token returned %d, want 401", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/dashboard/metrics", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token returned %d, want 401", w.Code)
	}

	// A co-owner carrying a well-formed disbursement must be stopped by the
	// role gate before the handler runs: 403 and nothing written.
	line, borrower := seedPortfolio(t, env)
	coOwner, err := middleware.GenerateToken("co-1", models.RoleCoOwner)
	if err != nil {
		t.Fatalf("could not sign token: %v", err)
	}
	w := env.do(t, http.MethodPost, "/agent/loans", coOwner, gin.H{
		"borrower_id":         borrower.ID,
		"line_id":             line.ID,
		"amount":              10000,
		"tenure":              30,
		"repayment_frequency": "daily",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("co-owner on an agent route returned %d, want 403", w.Code)
	}
	loans, _ := env.store.ListLoans(context.Background())
	if len(loans) != 0 {
		t.Errorf("role gate let the disbursement through: %d loans written", len(loans))
	}
}

func TestCreateBorrowerWithLocation(t *testing.T) {
	env := newTestEnv(t)
	line, _ := seedPortfolio(t, env)

	w := env.do(t, http.MethodPost, "/agent/borrowers", ownerToken(t), gin.H{
		"line_id":  line.ID,
		"name":     "Priya Sharma",
		"phone":    "+919812345678",
		"location": `{"type":"Point","coordinates":[77.5946,12.9716]}`,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create borrower returned %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Borrower struct {
			ID       string `json:"id"`
			Location string `json:"location"`
		} `json:"borrower"`
	}
	decodeBody(t, w, &resp)
	if resp.Borrower.Location == "" {
		t.Error("location did not round-trip to GeoJSON")
	}

	var loc struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	}
	if err := json.Unmarshal([]byte(resp.Borrower.Location), &loc); err != nil {
		t.Fatalf("location is not valid GeoJSON: %v", err)
	}
	if loc.Type != "Point" || len(loc.Coordinates) != 2 || loc.Coordinates[0] != 77.5946 {
		t.Errorf("location mangled: %+v", loc)
	}

	ctx := context.Background()
	updated, _ := env.store.GetLine(ctx, line.ID)
	if updated.BorrowerCount != 1 {
		t.Errorf("expected borrower count 1, got %d", updated.BorrowerCount)
	}

	w = env.do(t, http.MethodPost, "/agent/borrowers", ownerToken(t), gin.H{
		"line_id": "missing", "name": "Nobody",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("dangling line returned %d, want 400", w.Code)
	}
}

func TestCreateLoanAndPayment(t *testing.T) {
	env := newTestEnv(t)
	line, borrower := seedPortfolio(t, env)
	token := ownerToken(t)

	w := env.do(t, http.MethodPost, "/agent/loans", token, gin.H{
		"borrower_id":         borrower.ID,
		"line_id":             line.ID,
		"amount":              10000,
		"interest_rate":       7.5,
		"tenure":              30,
		"repayment_frequency": "daily",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create loan returned %d: %s", w.Code, w.Body.String())
	}
	var loanResp struct {
		Loan models.Loan `json:"loan"`
	}
	decodeBody(t, w, &loanResp)
	// total defaults to round(10000 * 1.075)
	if loanResp.Loan.TotalAmount != 10750 {
		t.Errorf("expected computed total 10750, got %v", loanResp.Loan.TotalAmount)
	}
	if loanResp.Loan.DailyAmount != 358 {
		t.Errorf("expected daily amount 358, got %v", loanResp.Loan.DailyAmount)
	}

	w = env.do(t, http.MethodPost, "/agent/payments", token, gin.H{
		"loan_id":     loanResp.Loan.ID,
		"borrower_id": borrower.ID,
		"amount":      500,
		"method":      "cash",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create payment returned %d: %s", w.Code, w.Body.String())
	}
	var payResp ledger.PaymentResult
	decodeBody(t, w, &payResp)
	if payResp.Loan.RemainingAmount != 10250 {
		t.Errorf("expected remaining 10250, got %v", payResp.Loan.RemainingAmount)
	}
	if payResp.Completed || payResp.Overpayment != 0 {
		t.Errorf("unexpected flags: %+v", payResp)
	}

	w = env.do(t, http.MethodPost, "/agent/payments", token, gin.H{
		"loan_id":     "missing",
		"borrower_id": borrower.ID,
		"amount":      500,
		"method":      "cash",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("dangling loan returned %d, want 400", w.Code)
	}
}

func TestUpdateLoanCompletedIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	line, borrower := seedPortfolio(t, env)
	token := ownerToken(t)
	ctx := context.Background()

	loan, err := env.engine.DisburseLoan(ctx, ledger.DisburseLoanInput{
		BorrowerID: borrower.ID, LineID: line.ID,
		Amount: 2000, Tenure: 10, Frequency: models.FrequencyDaily, TotalAmount: 2100,
	})
	if err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	if _, err := env.engine.RecordPayment(ctx, ledger.RecordPaymentInput{
		LoanID: loan.ID, BorrowerID: borrower.ID, Amount: 2100, Method: models.MethodCash,
	}); err != nil {
		t.Fatalf("repay loan: %v", err)
	}

	w := env.do(t, http.MethodPut, "/agent/loans/"+loan.ID, token, gin.H{"status": "active"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("reopening a completed loan returned %d, want 400", w.Code)
	}
	stored, _ := env.store.GetLoan(ctx, loan.ID)
	if stored.Status != models.LoanStatusCompleted {
		t.Errorf("completed loan reverted to %q", stored.Status)
	}

	// Date nudges on completed loans stay allowed; only status is locked.
	w = env.do(t, http.MethodPut, "/agent/loans/"+loan.ID, token, gin.H{
		"next_payment_date": "2026-10-01T00:00:00Z",
	})
	if w.Code != http.StatusOK {
		t.Errorf("date-only update returned %d: %s", w.Code, w.Body.String())
	}
}

func TestDashboardMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	line, borrower := seedPortfolio(t, env)

	if _, err := env.engine.DisburseLoan(context.Background(), ledger.DisburseLoanInput{
		BorrowerID: borrower.ID, LineID: line.ID,
		Amount: 10000, Tenure: 30, Frequency: models.FrequencyDaily, TotalAmount: 10750,
	}); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	w := env.do(t, http.MethodGet, "/api/dashboard/metrics", ownerToken(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics returned %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Metrics ledger.DashboardMetrics `json:"metrics"`
	}
	decodeBody(t, w, &resp)
	if resp.Metrics.TotalLines != 1 || resp.Metrics.ActiveLoans != 1 {
		t.Errorf("owner metrics wrong: %+v", resp.Metrics)
	}
	if resp.Metrics.TotalDisbursed != 10000 {
		t.Errorf("expected disbursed 10000, got %v", resp.Metrics.TotalDisbursed)
	}

	// An agent who works no line sees an empty dashboard, not an error.
	stranger, err := middleware.GenerateToken("agent-99", models.RoleAgent)
	if err != nil {
		t.Fatalf("could not sign token: %v", err)
	}
	w = env.do(t, http.MethodGet, "/api/dashboard/metrics", stranger, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stranger metrics returned %d", w.Code)
	}
	decodeBody(t, w, &resp)
	if resp.Metrics.TotalLines != 0 || resp.Metrics.TotalDisbursed != 0 {
		t.Errorf("agent scope leaked: %+v", resp.Metrics)
	}
}
