package handlers

import (
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/gin-gonic/gin"
)

func GetDashboard(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, services.DashboardSummary(s.Snapshot(), time.Now()))
	}
}

// GetDriverSummary returns the driver portal view. Drivers only see their own
// summary; staff pass ?driverId=.
func GetDriverSummary(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetString("userId")
		if models.UserRole(c.GetString("userRole")).IsStaff() {
			driverID = c.Query("driverId")
		}
		if driverID == "" {
			c.JSON(400, gin.H{"error": "driverId is required"})
			return
		}

		var since time.Time
		if v := c.Query("since"); v != "" {
			t, err := models.ParseDate(v)
			if err != nil {
				c.JSON(400, gin.H{"error": "since must be a YYYY-MM-DD date"})
				return
			}
			since = t
		}

		summary, ok := services.DriverSummary(s.Snapshot(), driverID, since, time.Now())
		if !ok {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}
		c.JSON(200, summary)
	}
}
