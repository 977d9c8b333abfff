package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type markReadRequest struct {
	NotificationID string `json:"notificationId"`
}

type notificationResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) ListUnreadNotifications(c *gin.Context) {
	resp, err := s.alertSvc.ListUnread(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	notification, err := s.alertSvc.MarkRead(c.Request.Context(), strings.TrimSpace(req.NotificationID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notificationResponse{
		ID:        snowflake.ID(notification.ID).String(),
		ProductID: snowflake.ID(notification.ProductID).String(),
		Message:   notification.Message,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}})
}
