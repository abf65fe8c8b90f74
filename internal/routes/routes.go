package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"penny_count/internal/controllers"
)

// Controllers bundles every handler the router mounts. Built once in main
// from the configured store and ledger engine.
type Controllers struct {
	Auth          *controllers.AuthController
	Users         *controllers.UserController
	Lines         *controllers.LineController
	Borrowers     *controllers.BorrowerController
	Loans         *controllers.LoanController
	Payments      *controllers.PaymentController
	Dashboard     *controllers.DashboardController
	Commissions   *controllers.CommissionController
	Notifications *controllers.NotificationController
}

func SetupRouter(c *Controllers) *gin.Engine {
	r := gin.New()

	// Gin snapshots each route's handler chain at registration, so the
	// global middleware has to be attached before any route is mounted.
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r, c)
	APIRoutes(r, c)
	OwnerRoutes(r, c)
	AgentRoutes(r, c)

	return r
}
