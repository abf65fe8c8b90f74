package routes

import (
	"github.com/gin-gonic/gin"

	"penny_count/internal/middleware"
	"penny_count/internal/models"
)

// OwnerRoutes holds everything only the business owner may touch: staff,
// lines, commission settlement and the manual job triggers.
func OwnerRoutes(r *gin.Engine, c *Controllers) {
	owner := r.Group("/owner")
	owner.Use(middleware.RequireAuthWithRole(models.RoleOwner))
	{
		owner.POST("/users", c.Users.CreateUser)
		owner.PUT("/users/:id", c.Users.UpdateUser)
		owner.DELETE("/users/:id", c.Users.DeleteUser)

		owner.POST("/lines", c.Lines.CreateLine)
		owner.PUT("/lines/:id", c.Lines.UpdateLine)
		owner.DELETE("/lines/:id", c.Lines.DeleteLine)

		owner.PATCH("/commissions/:id/paid", c.Commissions.MarkPaid)
		owner.POST("/jobs/commissions", c.Commissions.RunCommissions)
		owner.POST("/jobs/overdue-sweep", c.Commissions.SweepOverdue)
	}
}
