package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"penny_count/internal/models"
	"penny_count/internal/store"
)

type NotificationController struct {
	Store store.Store
}

func NewNotificationController(s store.Store) *NotificationController {
	return &NotificationController{Store: s}
}

// ListNotifications returns the authenticated user's notifications.
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	all, err := nc.Store.ListNotifications(c.Request.Context())
	if err != nil {
		respondList(c, "notifications", nil, err)
		return
	}
	mine := make([]models.Notification, 0)
	for _, n := range all {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	respondList(c, "notifications", mine, nil)
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	ctx := c.Request.Context()
	note, err := nc.Store.GetNotification(ctx, c.Param("id"))
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	note.IsRead = true
	if err := nc.Store.UpdateNotification(ctx, note); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": note})
}
