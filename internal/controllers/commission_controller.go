package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"penny_count/internal/jobs"
	"penny_count/internal/models"
	"penny_count/internal/store"
)

type CommissionController struct {
	Store store.Store
	Jobs  *jobs.Jobs
}

func NewCommissionController(s store.Store, j *jobs.Jobs) *CommissionController {
	return &CommissionController{Store: s, Jobs: j}
}

func (cc *CommissionController) ListCommissions(c *gin.Context) {
	commissions, err := cc.Store.ListCommissions(c.Request.Context())
	respondList(c, "commissions", commissions, err)
}

// MarkPaid settles a pending commission.
func (cc *CommissionController) MarkPaid(c *gin.Context) {
	ctx := c.Request.Context()
	commission, err := cc.Store.GetCommission(ctx, c.Param("id"))
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	if commission.Status == models.CommissionPaid {
		c.JSON(http.StatusOK, gin.H{"commission": commission})
		return
	}

	now := time.Now()
	commission.Status = models.CommissionPaid
	commission.PaidAt = &now
	if err := cc.Store.UpdateCommission(ctx, commission); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commission": commission})
}

// RunCommissions triggers the monthly run by hand, for the month containing
// ?period=YYYY-MM (defaults to the month that just closed).
func (cc *CommissionController) RunCommissions(c *gin.Context) {
	ref := time.Now().AddDate(0, -1, 0)
	if raw := c.Query("period"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "period must look like 2024-02"})
			return
		}
		ref = parsed
	}

	created, err := cc.Jobs.RunCommissions(c.Request.Context(), ref)
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

// SweepOverdue flips past-due loans on demand instead of waiting for the
// nightly run.
func (cc *CommissionController) SweepOverdue(c *gin.Context) {
	flipped, err := cc.Jobs.SweepOverdue(c.Request.Context(), time.Now())
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flipped": flipped})
}
