package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"penny_count/internal/controllers"
	"penny_count/internal/jobs"
	"penny_count/internal/ledger"
	"penny_count/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("could not create file store: %v", err)
	}
	engine := ledger.New(fs)
	maintenance := jobs.New(fs)
	return SetupRouter(&Controllers{
		Auth:          controllers.NewAuthController(fs),
		Users:         controllers.NewUserController(fs),
		Lines:         controllers.NewLineController(fs),
		Borrowers:     controllers.NewBorrowerController(engine),
		Loans:         controllers.NewLoanController(engine),
		Payments:      controllers.NewPaymentController(engine),
		Dashboard:     controllers.NewDashboardController(engine),
		Commissions:   controllers.NewCommissionController(fs, maintenance),
		Notifications: controllers.NewNotificationController(fs),
	})
}

func TestSetupRouterAttachesGlobalMiddleware(t *testing.T) {
	r := newRouter(t)

	// Recovery and request logging are attached inside SetupRouter before any
	// route is mounted, so every registered route inherits them in its chain.
	if len(r.Handlers) < 2 {
		t.Errorf("expected recovery and request logging on the engine, got %d global handlers", len(r.Handlers))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("login with an empty body returned %d, want 400 through the full chain", w.Code)
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	r := newRouter(t)
	for _, path := range []string{"/api/dashboard/metrics", "/api/loans", "/owner/users"} {
		method := http.MethodGet
		if path == "/owner/users" {
			method = http.MethodPost
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s returned %d without a token, want 401", method, path, w.Code)
		}
	}
}
