package routes

import (
	"github.com/gin-gonic/gin"

	"penny_count/internal/middleware"
)

// APIRoutes carries the reads every signed-in role shares. Collections come
// back unfiltered; the dashboard applies its own role and search filters.
func APIRoutes(r *gin.Engine, c *Controllers) {
	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/users", c.Users.ListUsers)
		api.GET("/lines", c.Lines.ListLines)
		api.GET("/lines/:id", c.Lines.GetLine)
		api.GET("/borrowers", c.Borrowers.ListBorrowers)
		api.GET("/borrowers/:id", c.Borrowers.GetBorrower)
		api.GET("/loans", c.Loans.ListLoans)
		api.GET("/loans/:id", c.Loans.GetLoan)
		api.GET("/payments", c.Payments.ListPayments)
		api.GET("/commissions", c.Commissions.ListCommissions)
		api.GET("/dashboard/metrics", c.Dashboard.Metrics)

		api.GET("/notifications", c.Notifications.ListNotifications)
		api.PATCH("/notifications/:id/read", c.Notifications.MarkRead)
	}
}
