package handlers

import (
	"log"

	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/gin-gonic/gin"
)

// ResetEarnings removes rental expenses so that payouts can be recomputed
func ResetEarnings(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.ResetEarnings(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		log.Printf("Earnings reset by user %s", c.GetString("userId"))
		c.JSON(200, gin.H{"message": "Earnings reset"})
	}
}

// ClearAllData wipes the fleet, keeping only the default admin account
func ClearAllData(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.ClearAllData(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		log.Printf("All data cleared by user %s", c.GetString("userId"))
		c.JSON(200, gin.H{"message": "All data cleared"})
	}
}
