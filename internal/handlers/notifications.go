package handlers

import (
	"log"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/gin-gonic/gin"
)

type DeviceTokenInput struct {
	FCMToken string `json:"fcmToken" binding:"required"`
}

func GetNotifications(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications := s.Notifications()
		unread := 0
		for _, n := range notifications {
			if !n.Read {
				unread++
			}
		}
		c.JSON(200, gin.H{
			"notifications": notifications,
			"unread":        unread,
		})
	}
}

func MarkNotificationsRead(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := s.MarkNotificationsRead(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"updated": count})
	}
}

// RunExpirationChecks triggers the document and rental expiry scan on demand
func RunExpirationChecks(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		found, err := s.RunExpirationChecks(c.Request.Context(), time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{
			"created":       len(found),
			"notifications": found,
		})
	}
}

// RegisterDevice subscribes a staff device to push notifications
func RegisterDevice(push *services.PushNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DeviceTokenInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if !push.Enabled() {
			c.JSON(503, gin.H{"error": "Push notifications are not configured"})
			return
		}

		if err := push.SubscribeDevice(c.Request.Context(), input.FCMToken); err != nil {
			log.Printf("Error subscribing device for user %s: %v", c.GetString("userId"), err)
			c.JSON(500, gin.H{"error": "Failed to register device"})
			return
		}
		c.JSON(200, gin.H{
			"message": "Device registered for notifications",
			"topic":   services.AdminTopic,
		})
	}
}

func RemoveDevice(push *services.PushNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DeviceTokenInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if !push.Enabled() {
			c.JSON(503, gin.H{"error": "Push notifications are not configured"})
			return
		}

		if err := push.UnsubscribeDevice(c.Request.Context(), input.FCMToken); err != nil {
			log.Printf("Error unsubscribing device for user %s: %v", c.GetString("userId"), err)
			c.JSON(500, gin.H{"error": "Failed to remove device"})
			return
		}
		c.JSON(200, gin.H{"message": "Device removed"})
	}
}
