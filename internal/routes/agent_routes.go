package routes

import (
	"github.com/gin-gonic/gin"

	"penny_count/internal/middleware"
	"penny_count/internal/models"
)

// AgentRoutes covers field work: registering borrowers, disbursing loans and
// collecting payments. Owners can do all of it too.
func AgentRoutes(r *gin.Engine, c *Controllers) {
	agent := r.Group("/agent")
	agent.Use(middleware.RequireAuthWithRole(models.RoleAgent, models.RoleOwner))
	{
		agent.POST("/borrowers", c.Borrowers.CreateBorrower)
		agent.PUT("/borrowers/:id", c.Borrowers.UpdateBorrower)

		agent.POST("/loans", c.Loans.CreateLoan)
		agent.PUT("/loans/:id", c.Loans.UpdateLoan)

		agent.POST("/payments", c.Payments.CreatePayment)
	}
}
