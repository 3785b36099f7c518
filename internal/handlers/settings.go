package handlers

import (
	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/gin-gonic/gin"
)

func GetSettings(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, s.Settings())
	}
}

func UpdateSettings(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to read request body"})
			return
		}

		settings, err := s.UpdateSettings(c.Request.Context(), func(cs *models.CompanySettings) error {
			return patchJSON(body, cs)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, settings)
	}
}
