package handlers

import (
	"errors"

	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/chachabrian/tvdefleet-backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates back-office users and drivers and returns a JWT
func Login(s *store.Store, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user, err := s.Authenticate(input.Email, input.Password)
		if errors.Is(err, store.ErrInvalidCredentials) {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to authenticate"})
			return
		}

		token, err := utils.GenerateToken(&user, secret)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":          user.ID,
				"email":       user.Email,
				"full_name":   user.FullName,
				"role":        user.Role,
				"permissions": user.Permissions,
			},
		})
	}
}
