package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"penny_count/internal/store"
)

var errInvalidRole = errors.New("role must be owner, co-owner or agent")

// respondWriteErr maps store failures on mutating calls to HTTP statuses.
// Write failures always surface; it is the UI's job to message the user.
func respondWriteErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrReferenceNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrBackendUnavailable):
		logrus.WithError(err).Error("store backend unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backend unavailable"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// respondList degrades reads gracefully: an unreachable backend yields an
// empty collection instead of an error page.
func respondList(c *gin.Context, key string, list any, err error) {
	if err != nil {
		if errors.Is(err, store.ErrBackendUnavailable) {
			logrus.WithError(err).Warn("read degraded to empty result")
			c.JSON(http.StatusOK, gin.H{key: []any{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{key: list})
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, raw)
}
