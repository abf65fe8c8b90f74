package main

import (
	"log"
	"net/http"

	"penny_count/internal/config"
	"penny_count/internal/controllers"
	"penny_count/internal/jobs"
	"penny_count/internal/ledger"
	"penny_count/internal/logger"
	"penny_count/internal/middleware"
	"penny_count/internal/routes"
)

func main() {
	// Structured logging to a rotating file
	logger.Setup()

	// Pick the persistence backend (postgres or local snapshot file)
	st := config.InitStore()
	engine := ledger.New(st)
	maintenance := jobs.New(st)

	ctrls := &routes.Controllers{
		Auth:          controllers.NewAuthController(st),
		Users:         controllers.NewUserController(st),
		Lines:         controllers.NewLineController(st),
		Borrowers:     controllers.NewBorrowerController(engine),
		Loans:         controllers.NewLoanController(engine),
		Payments:      controllers.NewPaymentController(engine),
		Dashboard:     controllers.NewDashboardController(engine),
		Commissions:   controllers.NewCommissionController(st, maintenance),
		Notifications: controllers.NewNotificationController(st),
	}

	r := routes.SetupRouter(ctrls)

	// Nightly overdue sweep and monthly commission run
	scheduler, err := jobs.NewScheduler(maintenance)
	if err != nil {
		log.Fatalf("could not build scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
