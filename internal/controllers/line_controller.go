package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"penny_count/internal/models"
	"penny_count/internal/store"
)

type LineController struct {
	Store store.Store
}

func NewLineController(s store.Store) *LineController {
	return &LineController{Store: s}
}

func (lc *LineController) ListLines(c *gin.Context) {
	lines, err := lc.Store.ListLines(c.Request.Context())
	respondList(c, "lines", lines, err)
}

func (lc *LineController) GetLine(c *gin.Context) {
	line, err := lc.Store.GetLine(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"line": line})
}

type createLineInput struct {
	Name              string  `json:"name" binding:"required"`
	CoOwnerID         string  `json:"co_owner_id"`
	AgentID           string  `json:"agent_id"`
	InitialCapital    float64 `json:"initial_capital"`
	InterestRate      float64 `json:"interest_rate"`
	DefaultTenure     int     `json:"default_tenure"`
	CommissionPercent float64 `json:"commission_percent"`
}

// CreateLine opens a new capital pool. The cash balance starts at the
// initial capital and the cumulative counters at zero.
func (lc *LineController) CreateLine(c *gin.Context) {
	var input createLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	line := models.Line{
		Name:              input.Name,
		OwnerID:           c.GetString("user_id"),
		CoOwnerID:         input.CoOwnerID,
		AgentID:           input.AgentID,
		InitialCapital:    input.InitialCapital,
		CurrentBalance:    input.InitialCapital,
		IsActive:          true,
		InterestRate:      input.InterestRate,
		DefaultTenure:     input.DefaultTenure,
		CommissionPercent: input.CommissionPercent,
	}
	if err := lc.Store.CreateLine(c.Request.Context(), &line); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"line": line})
}

type updateLineInput struct {
	Name              *string  `json:"name"`
	CoOwnerID         *string  `json:"co_owner_id"`
	AgentID           *string  `json:"agent_id"`
	IsActive          *bool    `json:"is_active"`
	InterestRate      *float64 `json:"interest_rate"`
	DefaultTenure     *int     `json:"default_tenure"`
	CommissionPercent *float64 `json:"commission_percent"`
}

// UpdateLine edits line metadata. The balance and cumulative totals belong
// to the ledger engine and cannot be set here.
func (lc *LineController) UpdateLine(c *gin.Context) {
	line, err := lc.Store.GetLine(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWriteErr(c, err)
		return
	}

	var input updateLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		line.Name = *input.Name
	}
	if input.CoOwnerID != nil {
		line.CoOwnerID = *input.CoOwnerID
	}
	if input.AgentID != nil {
		line.AgentID = *input.AgentID
	}
	if input.IsActive != nil {
		line.IsActive = *input.IsActive
	}
	if input.InterestRate != nil {
		line.InterestRate = *input.InterestRate
	}
	if input.DefaultTenure != nil {
		line.DefaultTenure = *input.DefaultTenure
	}
	if input.CommissionPercent != nil {
		line.CommissionPercent = *input.CommissionPercent
	}

	if err := lc.Store.UpdateLine(c.Request.Context(), line); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"line": line})
}

func (lc *LineController) DeleteLine(c *gin.Context) {
	if err := lc.Store.DeleteLine(c.Request.Context(), c.Param("id")); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line deleted"})
}
