package handlers

import (
	"errors"
	"log"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/gin-gonic/gin"
)

// respondError maps store and validation errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrValidation):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicatePlate), errors.Is(err, store.ErrRentalUnavailable):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidCredentials):
		c.JSON(401, gin.H{"error": err.Error()})
	default:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(500, gin.H{"error": "Failed to save changes"})
	}
}
