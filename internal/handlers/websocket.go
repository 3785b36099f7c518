package handlers

import (
	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler handles WebSocket connections
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userId")
		role := models.UserRole(c.GetString("userRole"))

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}
