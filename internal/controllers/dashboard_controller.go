package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"penny_count/internal/ledger"
)

type DashboardController struct {
	Engine *ledger.Engine
}

func NewDashboardController(e *ledger.Engine) *DashboardController {
	return &DashboardController{Engine: e}
}

// Metrics aggregates the dashboard figures for the authenticated user. The
// scope comes from the JWT, so an agent can only ever see their own lines.
func (dc *DashboardController) Metrics(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("role")

	metrics, err := dc.Engine.Metrics(c.Request.Context(), userID, role)
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}
