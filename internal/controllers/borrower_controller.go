package controllers

import (
	"encoding/binary"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"

	"penny_count/internal/ledger"
	"penny_count/internal/models"
)

type BorrowerController struct {
	Engine *ledger.Engine
}

func NewBorrowerController(e *ledger.Engine) *BorrowerController {
	return &BorrowerController{Engine: e}
}

// borrowerResponse swaps the stored WKB location for GeoJSON.
type borrowerResponse struct {
	models.Borrower
	Location string `json:"location,omitempty"`
}

func toBorrowerResponse(b models.Borrower) borrowerResponse {
	loc, err := locationGeoJSON(b.Location)
	if err != nil {
		logrus.WithError(err).WithField("borrower", b.ID).Warn("could not decode stored location")
	}
	return borrowerResponse{Borrower: b, Location: loc}
}

// parseLocation parses a GeoJSON point into WKB bytes for storage.
func parseLocation(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// locationGeoJSON converts stored WKB bytes back into a GeoJSON string.
func locationGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (bc *BorrowerController) ListBorrowers(c *gin.Context) {
	borrowers, err := bc.Engine.Store().ListBorrowers(c.Request.Context())
	if err != nil {
		respondList(c, "borrowers", nil, err)
		return
	}
	out := make([]borrowerResponse, 0, len(borrowers))
	for _, b := range borrowers {
		out = append(out, toBorrowerResponse(b))
	}
	respondList(c, "borrowers", out, nil)
}

func (bc *BorrowerController) GetBorrower(c *gin.Context) {
	b, err := bc.Engine.Store().GetBorrower(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrower": toBorrowerResponse(*b)})
}

type createBorrowerInput struct {
	LineID   string `json:"line_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Location string `json:"location"` // GeoJSON point
}

// CreateBorrower registers a borrower under a line; the line's borrower
// count moves with it.
func (bc *BorrowerController) CreateBorrower(c *gin.Context) {
	var input createBorrowerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc, err := parseLocation(input.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location: " + err.Error()})
		return
	}

	borrower := models.Borrower{
		LineID:   input.LineID,
		Name:     input.Name,
		Phone:    input.Phone,
		Address:  input.Address,
		Location: loc,
	}
	if err := bc.Engine.RegisterBorrower(c.Request.Context(), &borrower); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"borrower": toBorrowerResponse(borrower)})
}

type updateBorrowerInput struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Location    *string `json:"location"`
	IsHighRisk  *bool   `json:"is_high_risk"`
	IsDefaulter *bool   `json:"is_defaulter"`
	CreditScore *int    `json:"credit_score"`
}

// UpdateBorrower edits profile fields; the repayment aggregates stay under
// ledger control.
func (bc *BorrowerController) UpdateBorrower(c *gin.Context) {
	ctx := c.Request.Context()
	borrower, err := bc.Engine.Store().GetBorrower(ctx, c.Param("id"))
	if err != nil {
		respondWriteErr(c, err)
		return
	}

	var input updateBorrowerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		borrower.Name = *input.Name
	}
	if input.Phone != nil {
		borrower.Phone = *input.Phone
	}
	if input.Address != nil {
		borrower.Address = *input.Address
	}
	if input.Location != nil {
		loc, err := parseLocation(*input.Location)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location: " + err.Error()})
			return
		}
		borrower.Location = loc
	}
	if input.IsHighRisk != nil {
		borrower.IsHighRisk = *input.IsHighRisk
	}
	if input.IsDefaulter != nil {
		borrower.IsDefaulter = *input.IsDefaulter
	}
	if input.CreditScore != nil {
		borrower.CreditScore = *input.CreditScore
	}

	if err := bc.Engine.Store().UpdateBorrower(ctx, borrower); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrower": toBorrowerResponse(*borrower)})
}
